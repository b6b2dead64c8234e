package session

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption is a functional option for configuring a session store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
	maxHistory  int
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithTTL sets how long an idle session is kept. Zero keeps sessions
// until the store is closed.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithMaxHistory overrides the per-session cap.
func WithMaxHistory(n int) StoreOption {
	return func(c *storeConfig) {
		c.maxHistory = n
	}
}

// NewStore creates a Store of the given type. Redis requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{maxHistory: MaxHistory}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxHistory <= 0 {
		return nil, ErrInvalidConfig
	}

	switch storeType {
	case StoreTypeMemory, "":
		return NewMemoryStore(cfg.maxHistory, cfg.ttl), nil

	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(cfg.redisClient, cfg.ttl, cfg.maxHistory), nil

	default:
		return nil, ErrInvalidStoreType
	}
}
