package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type stubCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newStubCmdable() *stubCmdable {
	return &stubCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (s *stubCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (s *stubCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	s.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (s *stubCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (s *stubCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	s.incr[key]++
	return redis.NewIntResult(s.incr[key], nil)
}

func (s *stubCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	s.expireCalls = append(s.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (s *stubCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(s.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	stub := newStubCmdable()
	client := &Client{store: stub}

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 1 {
		t.Fatalf("first attempt: allowed=%v count=%d", allowed, count)
	}
	if len(stub.expireCalls) != 1 {
		t.Fatalf("expected ttl set on first increment")
	}
	if stub.expireCalls[0].key != "kv:rate_limit:test-scope" {
		t.Fatalf("unexpected window key %s", stub.expireCalls[0].key)
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("second attempt: allowed=%v count=%d", allowed, count)
	}
	if len(stub.expireCalls) != 1 {
		t.Fatalf("ttl must only be set when the window opens")
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("third attempt should exceed the limit")
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newStubCmdable()}

	key := client.AccessSessionKey("jti-1")
	if key != "kv:session:access:jti-1" {
		t.Fatalf("unexpected session key %s", key)
	}
	if err := client.Set(ctx, key, "token-value", 10*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	token, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if token != "token-value" {
		t.Fatalf("expected stored token, got %q", token)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Set(context.Background(), "k", "v", 0); err != errNotInitialized {
		t.Fatalf("expected errNotInitialized, got %v", err)
	}
	if _, _, err := client.FixedWindowAllow(context.Background(), "s", 1, time.Second); err != errNotInitialized {
		t.Fatalf("expected errNotInitialized, got %v", err)
	}
}
