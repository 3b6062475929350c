package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const requestKeyPrefix = "checkout:req:"

// Guard deduplicates checkout requests by client-supplied request id.
// Reserve wins exactly once per id within the TTL; Bind records the order
// the winning request created so replays can return it.
type Guard interface {
	Reserve(ctx context.Context, requestID string) (bool, error)
	Bind(ctx context.Context, requestID, orderID string) error
	Lookup(ctx context.Context, requestID string) (string, error)
	Release(ctx context.Context, requestID string) error
}

// redisClient is the subset of redis.Client the guard relies on.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type guard struct {
	client redisClient
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to redis and returns a request guard.
func New(ctx context.Context, addr, password string, ttl time.Duration, logger *slog.Logger) (Guard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &guard{client: client, ttl: ttl, logger: logger}, nil
}

func (g *guard) Reserve(ctx context.Context, requestID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, requestKeyPrefix+requestID, "pending", g.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (g *guard) Bind(ctx context.Context, requestID, orderID string) error {
	return g.client.Set(ctx, requestKeyPrefix+requestID, orderID, g.ttl).Err()
}

func (g *guard) Lookup(ctx context.Context, requestID string) (string, error) {
	val, err := g.client.Get(ctx, requestKeyPrefix+requestID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if val == "pending" {
		return "", nil
	}
	return val, nil
}

func (g *guard) Release(ctx context.Context, requestID string) error {
	return g.client.Del(ctx, requestKeyPrefix+requestID).Err()
}

func (g *guard) close() error {
	return g.client.Close()
}

// noopGuard is used when no redis address is configured; every request
// reserves successfully, so checkout proceeds without deduplication.
type noopGuard struct{}

func (noopGuard) Reserve(context.Context, string) (bool, error) { return true, nil }
func (noopGuard) Bind(context.Context, string, string) error    { return nil }
func (noopGuard) Lookup(context.Context, string) (string, error) {
	return "", nil
}
func (noopGuard) Release(context.Context, string) error { return nil }
