package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Cache stores vectors by content hash. Misses and backend failures both
// report ok=false; the embedder then falls back to the provider.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, vector []float32)
	Clear(ctx context.Context) error
}

// CachedEmbedder consults a Cache before calling the wrapped provider.
type CachedEmbedder struct {
	embedder Embedder
	cache    Cache
	logger   *zerolog.Logger
}

func NewCachedEmbedder(embedder Embedder, cache Cache, logger *zerolog.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		embedder: embedder,
		cache:    cache,
		logger:   logger,
	}
}

func (c *CachedEmbedder) key(text string) string {
	return c.embedder.Model() + ":" + ComputeHash(text)
}

func (c *CachedEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	key := c.key(text)
	if vector, ok := c.cache.Get(ctx, key); ok {
		return vector, nil
	}

	vector, err := c.embedder.GenerateEmbeddings(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, key, vector)
	return vector, nil
}

func (c *CachedEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if vector, ok := c.cache.Get(ctx, c.key(text)); ok {
			embeddings[i] = vector
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	c.logger.Debug().
		Int("hits", len(texts)-len(missing)).
		Int("misses", len(missing)).
		Msg("Embedding cache lookup")

	if len(missing) == 0 {
		return embeddings, nil
	}

	generated, err := c.embedder.GenerateBatchEmbeddings(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(generated) != len(missing) {
		return nil, fmt.Errorf("%w: requested %d embeddings, got %d", ErrBatchMismatch, len(missing), len(generated))
	}

	for j, vector := range generated {
		embeddings[missingIdx[j]] = vector
		c.cache.Set(ctx, c.key(missing[j]), vector)
	}

	return embeddings, nil
}

func (c *CachedEmbedder) Dimensions() int {
	return c.embedder.Dimensions()
}

func (c *CachedEmbedder) Model() string {
	return c.embedder.Model()
}

// ClearCache drops every cached vector.
func (c *CachedEmbedder) ClearCache(ctx context.Context) error {
	return c.cache.Clear(ctx)
}
