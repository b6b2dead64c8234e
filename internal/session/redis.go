package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for session histories
	sessionKeyPrefix = "session:"
	defaultTTL       = 24 * time.Hour
)

// RedisStore keeps each session as a capped Redis list of JSON summaries,
// so several service instances share one rolling window.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	max    int
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration, limit int) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if limit <= 0 {
		limit = MaxHistory
	}
	return &RedisStore{client: client, ttl: ttl, max: limit}
}

// Append implements Store. Push, trim and TTL refresh run in one MULTI block.
func (s *RedisStore) Append(ctx context.Context, sessionID string, sum Summary) error {
	val, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	key := s.key(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, val)
		pipe.LTrim(ctx, key, int64(-s.max), -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append session %s: %w", sessionID, err)
	}
	return nil
}

// History implements Store.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Summary, error) {
	vals, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", sessionID, err)
	}

	out := make([]Summary, 0, len(vals))
	for _, v := range vals {
		var sum Summary
		if err := json.Unmarshal([]byte(v), &sum); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
		}
		out = append(out, sum)
	}
	return out, nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}
