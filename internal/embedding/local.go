package embedding

import (
	"context"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

const DefaultLocalDimensions = 512

// LocalEmbedder is a deterministic hashed bag-of-words model.
// It needs no network and is meant for development and tests.
type LocalEmbedder struct {
	dimensions int
}

func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultLocalDimensions
	}
	return &LocalEmbedder{dimensions: dimensions}
}

func (e *LocalEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make([]float32, e.dimensions)
	for _, token := range tokenize(text) {
		h := xxhash.Sum64String(token)
		sign := float32(1)
		if h>>63 == 1 {
			sign = -1
		}
		vector[h%uint64(e.dimensions)] += sign
	}

	return Normalize(vector), nil
}

func (e *LocalEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.GenerateEmbeddings(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = vector
	}
	return embeddings, nil
}

func (e *LocalEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *LocalEmbedder) Model() string {
	return "local-hashing"
}

// tokenize lowercases and splits on anything that is not a letter or digit.
// Purely numeric tokens are dropped so leading identifiers do not affect similarity.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, unicode.IsLetter) < 0 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
