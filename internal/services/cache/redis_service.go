package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrMiss = errors.New("cache miss")

// RedisClient stores JSON encoded values of T with a fixed expiration.
type RedisClient[T any] struct {
	client     redis.UniversalClient
	logger     zerolog.Logger
	expiration time.Duration
}

func NewRedisClient[T any](
	client redis.UniversalClient,
	logger zerolog.Logger,
	expiration time.Duration,
) *RedisClient[T] {
	logger = logger.With().Str("component", "RedisClient").Logger()
	return &RedisClient[T]{client: client, logger: logger, expiration: expiration}
}

func (c *RedisClient[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.expiration).Err(); err != nil {
		c.logger.Error().Ctx(ctx).Str("key", key).Err(err).Msg("cache write failed")
		return err
	}

	c.logger.Debug().Ctx(ctx).Str("key", key).Dur("expiration", c.expiration).Msg("cache written")
	return nil
}

// Get returns ErrMiss when the key does not exist.
//
//nolint:ireturn
func (c *RedisClient[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrMiss
	}
	if err != nil {
		c.logger.Error().Ctx(ctx).Str("key", key).Err(err).Msg("cache read failed")
		return zero, err
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Error().Ctx(ctx).Str("key", key).Err(err).Msg("failed to unmarshal cached data")
		return zero, fmt.Errorf("unmarshal: %w", err)
	}
	return result, nil
}
