// Package cache provides embedding cache backends: an in-process LRU and Redis.
package cache

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultLRUSize = 10000

type LRUCache struct {
	cache *lru.Cache[string, []float32]
}

func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}

	c, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{cache: c}, nil
}

// Get returns a copy so callers cannot mutate the cached vector.
func (c *LRUCache) Get(ctx context.Context, key string) ([]float32, bool) {
	vector, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(vector), true
}

func (c *LRUCache) Set(ctx context.Context, key string, vector []float32) {
	c.cache.Add(key, slices.Clone(vector))
}

func (c *LRUCache) Clear(ctx context.Context) error {
	c.cache.Purge()
	return nil
}

func (c *LRUCache) Len() int {
	return c.cache.Len()
}
