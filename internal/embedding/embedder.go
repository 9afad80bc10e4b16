// Package embedding turns text into fixed-dimension vectors.
//
// Providers share the Embedder interface so the corpus store does not care
// whether vectors come from Bedrock, OpenAI or the local hashing model.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyText           = errors.New("text cannot be empty")
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
	ErrDimensionMismatch   = errors.New("embedding dimension mismatch")
	ErrBatchMismatch       = errors.New("embedding count does not match input")
)

const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	ProviderLocal   = "local"
)

type Embedder interface {
	// GenerateEmbeddings embeds a single text.
	GenerateEmbeddings(ctx context.Context, text string) ([]float32, error)
	// GenerateBatchEmbeddings embeds texts, returning vectors in input order.
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Model() string
}

func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrEmptyText)
	}
	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d", ErrEmptyText, i)
		}
	}
	return nil
}

// ComputeHash is the content address used as cache key.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Normalize scales v to unit length in place. Zero vectors are left unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
