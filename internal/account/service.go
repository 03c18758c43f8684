package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/apperr"
	"tripsplit/pkg/auth"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/store"
)

const defaultRefreshTTL = 30 * 24 * time.Hour

// Service handles signup, login, and token lifecycle.
type Service struct {
	store      store.Store
	tokens     *auth.TokenManager
	refresh    store.RefreshTokenStore
	refreshTTL time.Duration
	logger     *slog.Logger
}

// NewService wires the account service.
func NewService(st store.Store, tokens *auth.TokenManager, refresh store.RefreshTokenStore, refreshTTL time.Duration, logger *slog.Logger) *Service {
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, tokens: tokens, refresh: refresh, refreshTTL: refreshTTL, logger: logger}
}

// Session is an authenticated user plus a fresh token pair.
type Session struct {
	User         domain.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
}

// SignUpInput registers a new account.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// SignUp registers the user and issues a session.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, apperr.BadRequest("email and password are required")
	}
	if !strings.Contains(email, "@") {
		return Session{}, apperr.BadRequest("email is invalid")
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return Session{}, apperr.BadRequest(err.Error())
	}
	exists, err := s.store.HasUserEmail(email)
	if err != nil {
		return Session{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return Session{}, apperr.Conflict("email already exists")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.SaveUser(user); err != nil {
		return Session{}, fmt.Errorf("save user: %w", err)
	}
	s.logger.Info("user signed up", "user_id", user.ID)
	return s.issueSession(user)
}

// Login verifies credentials and issues a session. The message never reveals
// whether the email exists.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	user, ok, err := s.store.GetUserByEmail(email)
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return Session{}, apperr.Unauthorized("incorrect email address or password")
	}
	return s.issueSession(user)
}

// Refresh rotates the presented refresh token and issues a new pair. The old
// token is consumed even when the rotation fails downstream.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return Session{}, apperr.BadRequest("refreshToken is required")
	}
	userID, newToken, err := s.refresh.RotateToken(refreshToken, s.refreshTTL)
	if err != nil {
		if errors.Is(err, store.ErrInvalidRefreshToken) {
			return Session{}, apperr.Unauthorized("invalid refresh token")
		}
		return Session{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	user, ok, err := s.store.GetUserByID(userID)
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		_ = s.refresh.DeleteToken(newToken)
		return Session{}, apperr.Unauthorized("invalid refresh token")
	}
	access, err := s.tokens.Issue(user.ID)
	if err != nil {
		_ = s.refresh.DeleteToken(newToken)
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	return Session{
		User:         user,
		Token:        access,
		RefreshToken: newToken,
		ExpiresIn:    int(s.tokens.TTL().Seconds()),
	}, nil
}

// Logout revokes the refresh token. Access tokens simply expire.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	return s.refresh.DeleteToken(refreshToken)
}

// UserFromToken resolves the access token to its user.
func (s *Service) UserFromToken(token string) (domain.User, bool) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return domain.User{}, false
	}
	user, ok, err := s.store.GetUserByID(userID)
	if err != nil || !ok {
		return domain.User{}, false
	}
	return user, true
}

func (s *Service) issueSession(user domain.User) (Session, error) {
	access, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.refresh.NewToken(user.ID, s.refreshTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return Session{
		User:         user,
		Token:        access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.tokens.TTL().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
