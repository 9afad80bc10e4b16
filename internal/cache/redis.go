package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const DefaultKeyPrefix = "anime-recommender:embedding:"

// RedisCache shares embeddings between replicas. Redis failures are logged
// and treated as misses so a cache outage never fails a request.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, logger *zerolog.Logger) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Redis cache read failed")
		}
		return nil, false
	}

	vector, err := decodeVector(data)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry")
		return nil, false
	}
	return vector, true
}

func (c *RedisCache) Set(ctx context.Context, key string, vector []float32) {
	if err := c.client.Set(ctx, c.prefix+key, encodeVector(vector), c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Redis cache write failed")
	}
}

// Clear deletes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()

	var batch []string
	deleted := 0
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 500 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
		deleted += len(batch)
	}

	c.logger.Info().Int("deleted", deleted).Msg("Embedding cache cleared")
	return nil
}

func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector length %d", len(data))
	}

	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vector, nil
}
