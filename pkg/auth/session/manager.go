package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/kvitkova/kvitkova-backend/pkg/config"
	redisclient "github.com/kvitkova/kvitkova-backend/pkg/redis"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// sessionBackend is the slice of the redis client the manager uses:
// keyed get/set/del plus the session key scheme.
type sessionBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// Manager stores one refresh token per access id (the JWT jti) and
// rotates the pair atomically on refresh. Logout deletes the mapping,
// which invalidates both the refresh token and the access token's
// session check.
type Manager struct {
	backend sessionBackend
	ttl     time.Duration
}

// AccessSessionChecker is the read-only view the auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute; ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{backend: client, ttl: ttl}, nil
}

// NewAccessID mints the identifier shared by the JWT jti and the redis
// session key.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate issues and stores a refresh token for accessID.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	token, err := mintRefreshToken()
	if err != nil {
		return "", err
	}
	if err := m.backend.Set(ctx, m.backend.AccessSessionKey(accessID), token, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// HasSession reports whether accessID still maps to a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	_, err := m.backend.Get(ctx, m.backend.AccessSessionKey(accessID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redislib.Nil):
		return false, nil
	default:
		return false, err
	}
}

// Rotate checks provided against the stored token for oldAccessID and,
// on match, replaces the session with a fresh access id + refresh
// token. The old mapping is deleted last so a crash mid-rotate cannot
// leave the caller with no valid session.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	oldKey := m.backend.AccessSessionKey(oldAccessID)
	stored, err := m.backend.Get(ctx, oldKey)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	newToken, err := mintRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := m.backend.Set(ctx, m.backend.AccessSessionKey(newAccessID), newToken, m.ttl); err != nil {
		return "", "", err
	}
	if err := m.backend.Del(ctx, oldKey); err != nil {
		return "", "", err
	}
	return newAccessID, newToken, nil
}

// Revoke drops the session for accessID. Deleting an absent key is not
// an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.backend.Del(ctx, m.backend.AccessSessionKey(accessID))
}

func mintRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
