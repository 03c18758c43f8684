package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"tripsplit/internal/account"
	"tripsplit/internal/config"
	"tripsplit/internal/expense"
	"tripsplit/internal/flightapi"
	"tripsplit/internal/groups"
	"tripsplit/internal/itinerary"
	"tripsplit/internal/server"
	"tripsplit/internal/transportchat"
	"tripsplit/internal/uploads"
	"tripsplit/internal/util"
	"tripsplit/pkg/ai"
	"tripsplit/pkg/auth"
	"tripsplit/pkg/queue"
	"tripsplit/pkg/storage"
	"tripsplit/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	dataStore, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init postgres store: %v", err)
	}
	objects, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("failed to init object store: %v", err)
	}
	jobs, err := queue.NewRedisJobQueue(queue.RedisQueueConfig{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		Stream:     cfg.QueueStream,
		Group:      cfg.QueueGroup,
		MaxRetries: cfg.QueueMaxRetries,
		RetryDelay: time.Duration(cfg.QueueRetryDelaySeconds) * time.Second,
	})
	if err != nil {
		log.Fatalf("failed to init job queue: %v", err)
	}
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
	})
	if err != nil {
		log.Fatalf("failed to init token manager: %v", err)
	}
	text, _, err := buildGenerators(cfg)
	if err != nil {
		log.Fatalf("failed to init AI provider: %v", err)
	}

	refreshTokens := store.NewRedisRefreshTokenStore(cfg.RedisAddr, cfg.RedisPassword)
	refreshTTL := time.Duration(cfg.RefreshTokenTTLHours) * time.Hour
	flights := flightapi.NewClient(cfg.FlightAPIURL, cfg.FlightAPIKey)
	itinerarySvc := itinerary.NewService(dataStore, flights, logger)

	httpServer, err := server.New(server.Config{
		Accounts:                 account.NewService(dataStore, tokens, refreshTokens, refreshTTL, logger),
		Groups:                   groups.NewService(dataStore, logger),
		Expenses:                 expense.NewService(dataStore, objects, logger),
		Uploads:                  uploads.NewService(dataStore, objects, jobs, logger),
		Itinerary:                itinerarySvc,
		Chat:                     transportchat.NewService(dataStore, flights, text, itinerarySvc, logger),
		RedisAddr:                cfg.RedisAddr,
		RedisPassword:            cfg.RedisPassword,
		SignupRateLimitPerMinute: cfg.AuthRateLimitPerMinute,
		LoginRateLimitPerMinute:  cfg.AuthRateLimitPerMinute,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

// buildGenerators selects the configured LLM provider. Only OpenAI-compatible
// providers support vision; with Gemini, image receipts are rejected.
func buildGenerators(cfg config.FileConfig) (ai.TextGenerator, ai.VisionGenerator, error) {
	switch cfg.AIProvider {
	case "gemini":
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return ai.NewGeminiGenerator(client, cfg.GeminiModel), nil, nil
	default:
		gen, err := ai.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			return nil, nil, err
		}
		return gen, gen, nil
	}
}
