package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// ViewCache stores rendered path views. It is an optimisation only: callers
// treat every error as a miss and never fail a request on it.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Invalidate(ctx context.Context, keys ...string) error
	Close() error
}

func PathDetailKey(pathID string) string { return fmt.Sprintf("path:%s:detail", pathID) }

func PathListKey(userID string) string { return fmt.Sprintf("paths:%s:list", userID) }

// PathKeys are the views touched by any write to a path.
func PathKeys(userID, pathID string) []string {
	return []string{PathDetailKey(pathID), PathListKey(userID)}
}

type Config struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

type redisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

// New connects to Redis, or returns a no-op cache when Addr is empty.
func New(ctx context.Context, cfg Config, log *logger.Logger) (ViewCache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		log.Info("view cache disabled (no redis addr)")
		return Noop{}, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(rdb, cfg, log), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *goredis.Client, cfg Config, log *logger.Logger) ViewCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "learnpath:"
	}
	return &redisCache{log: log.With("cache", "RedisViewCache"), rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte) error {
	return c.rdb.Set(ctx, c.prefix+key, val, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

// Noop always misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte) error   { return nil }
func (Noop) Invalidate(context.Context, ...string) error { return nil }
func (Noop) Close() error                                { return nil }
