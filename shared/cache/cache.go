package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"pxltravel/infras/otel"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"

	// clearBatch bounds how many keys one SCAN page hands to DEL.
	clearBatch = 500

	Nil = redis.Nil
)

// RedisCache stores JSON snapshots under string keys. Get returns an error wrapping Nil on a miss.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error
	Increment(ctx context.Context, key string, window int) (count int64, err error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{client: client, otel: ot}
}

func (cache *redisCache) scope(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+op)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	return ctx, scope
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// encode stores strings as-is so plain markers stay readable from redis-cli.
func encode(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}

	return json.Marshal(value) //nolint:wrapcheck
}

func decode(raw string, value any) error {
	if s, ok := value.(*string); ok {
		*s = raw

		return nil
	}

	return json.Unmarshal([]byte(raw), value) //nolint:wrapcheck
}

func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := cache.scope(ctx, "Save", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	raw, err := encode(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode cache value")

		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	if err = cache.client.Set(ctx, key, raw, seconds(duration)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("key", key).Int("ttl", duration).Msg("cache saved")

	return nil
}

func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.scope(ctx, "Get", key)
	defer scope.End()

	raw, err := cache.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil { //nolint:errorlint
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if err = decode(raw, value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to decode cache value")

		return fmt.Errorf("failed to decode cache value: %w", err)
	}

	return nil
}

func (cache *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := cache.scope(ctx, "Delete", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = cache.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// Clear deletes every key matching the glob pattern, one SCAN page at a time.
func (cache *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := cache.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var (
		cursor  uint64
		keys    []string
		removed int64
	)

	for {
		keys, cursor, err = cache.client.Scan(ctx, cursor, pattern, clearBatch).Result()
		if err != nil {
			log.Error().Err(err).Str("pattern", pattern).Msg("failed to scan cache")

			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			n, err := cache.client.Del(ctx, keys...).Result()
			if err != nil {
				log.Error().Err(err).Str("pattern", pattern).Msg("failed to delete cache")

				return fmt.Errorf("failed to delete cache value: %w", err)
			}

			removed += n
		}

		if cursor == 0 {
			break
		}
	}

	scope.SetAttribute("cache.removed", removed)

	return nil
}

// Increment bumps a counter and starts its expiry window on the first hit.
func (cache *redisCache) Increment(ctx context.Context, key string, window int) (count int64, err error) {
	ctx, scope := cache.scope(ctx, "Increment", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if count, err = cache.client.Incr(ctx, key).Result(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to increment counter")

		return 0, fmt.Errorf("failed to increment cache counter: %w", err)
	}

	if count > 1 {
		return count, nil
	}

	if err = cache.client.Expire(ctx, key, seconds(window)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set counter expiry")

		return count, fmt.Errorf("failed to set cache counter expiry: %w", err)
	}

	return count, nil
}
