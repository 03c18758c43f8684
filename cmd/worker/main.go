package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripsplit/internal/config"
	"tripsplit/internal/uploads"
	"tripsplit/internal/util"
	"tripsplit/pkg/ai"
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
		Consumer:   "receipt-worker",
		MaxRetries: cfg.QueueMaxRetries,
		RetryDelay: time.Duration(cfg.QueueRetryDelaySeconds) * time.Second,
	})
	if err != nil {
		log.Fatalf("failed to init job queue: %v", err)
	}
	text, vision, err := buildGenerators(cfg)
	if err != nil {
		log.Fatalf("failed to init AI provider: %v", err)
	}

	parser := uploads.NewParser(dataStore, objects, text, vision, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := cfg.QueueConcurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	slog.Info("receipt worker starting", "stream", cfg.QueueStream, "concurrency", concurrency)
	jobs.Start(ctx, concurrency, func(ctx context.Context, job queue.JobStatus) error {
		return parser.Parse(ctx, job.UploadID)
	})

	<-ctx.Done()
	slog.Info("receipt worker stopping")
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
