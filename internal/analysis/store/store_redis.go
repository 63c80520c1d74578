package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"authscript/internal/analysis"
)

const resultKeyPrefix = "analysis:result:"

// RedisStore is a Redis-backed result cache for distributed deployments
// where multiple instances should share analysis results.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed result cache.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*analysis.PAForm, error) {
	payload, err := s.client.Get(ctx, resultKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached result: %w", err)
	}

	var form analysis.PAForm
	if err := json.Unmarshal(payload, &form); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	return &form, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, form *analysis.PAForm, ttl time.Duration) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := s.client.Set(ctx, resultKeyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache result: %w", err)
	}
	return nil
}
