package store

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newRedisStore(t *testing.T) *RedisRefreshTokenStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewRedisRefreshTokenStore(mr.Addr(), "")
}

func TestRedisRefreshTokenRotation(t *testing.T) {
	s := newRedisStore(t)

	token, err := s.NewToken("user-1", time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	userID, next, err := s.RotateToken(token, time.Minute)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}

	if _, _, err := s.RotateToken(token, time.Minute); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for reused token, got %v", err)
	}
	if _, _, err := s.RotateToken(next, time.Minute); err != nil {
		t.Fatalf("rotate fresh token: %v", err)
	}
}

func TestRedisRefreshTokenDelete(t *testing.T) {
	s := newRedisStore(t)

	token, err := s.NewToken("user-1", time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if err := s.DeleteToken(token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.RotateToken(token, time.Minute); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected deleted token to be invalid, got %v", err)
	}
}
