package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeBackend struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string]string)}
}

func (f *fakeBackend) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeBackend) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (f *fakeBackend) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeBackend) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func newTestManager(backend *fakeBackend) *Manager {
	return &Manager{backend: backend, ttl: time.Hour}
}

func TestManagerRotateReplacesSession(t *testing.T) {
	backend := newFakeBackend()
	manager := newTestManager(backend)
	ctx := context.Background()

	accessID := "access-123"
	token, err := manager.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stored := backend.data[backend.AccessSessionKey(accessID)]; stored != token {
		t.Fatalf("expected stored token %q, got %q", token, stored)
	}

	if _, _, err := manager.Rotate(ctx, accessID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	newAccessID, newToken, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newAccessID == accessID {
		t.Fatalf("rotate reused the access id")
	}
	if _, exists := backend.data[backend.AccessSessionKey(accessID)]; exists {
		t.Fatalf("old session left behind after rotate")
	}
	if stored := backend.data[backend.AccessSessionKey(newAccessID)]; stored != newToken {
		t.Fatalf("expected new token stored, got %q", stored)
	}
}

func TestManagerRotateRejectsUnknownSession(t *testing.T) {
	manager := newTestManager(newFakeBackend())

	if _, _, err := manager.Rotate(context.Background(), "never-issued", "token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}
}

func TestManagerRevokeEndsSession(t *testing.T) {
	backend := newFakeBackend()
	manager := newTestManager(backend)
	ctx := context.Background()

	accessID := "access-456"
	if _, err := manager.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	active, err := manager.HasSession(ctx, accessID)
	if err != nil || !active {
		t.Fatalf("expected active session, got active=%v err=%v", active, err)
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	active, err = manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after revoke: %v", err)
	}
	if active {
		t.Fatalf("expected session gone after revoke")
	}
}
