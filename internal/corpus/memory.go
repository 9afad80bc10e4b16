package corpus

import (
	"context"
	"fmt"
	"sort"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/embedding"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize   = 64
	DefaultConcurrency = 4
)

// MemoryStore keeps every document vector in process and ranks by cosine
// similarity. It is read-only once Index returns.
type MemoryStore struct {
	embedder    embedding.Embedder
	logger      *zerolog.Logger
	batchSize   int
	concurrency int

	docs    []Document
	vectors [][]float32
}

func NewMemoryStore(embedder embedding.Embedder, batchSize, concurrency int, logger *zerolog.Logger) *MemoryStore {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &MemoryStore{
		embedder:    embedder,
		logger:      logger,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// Index embeds docs in batches and replaces the current contents.
func (s *MemoryStore) Index(ctx context.Context, docs []Document) error {
	vectors := make([][]float32, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for start := 0; start < len(docs); start += s.batchSize {
		end := min(start+s.batchSize, len(docs))

		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, doc := range docs[start:end] {
				texts = append(texts, doc.Content)
			}

			embeddings, err := s.embedder.GenerateBatchEmbeddings(gctx, texts)
			if err != nil {
				return fmt.Errorf("failed to embed documents %d-%d: %w", start, end-1, err)
			}
			if len(embeddings) != len(texts) {
				return fmt.Errorf("embedder returned %d vectors for %d documents", len(embeddings), len(texts))
			}

			for i, vector := range embeddings {
				// copy before normalising, cached vectors may be shared
				v := make([]float32, len(vector))
				copy(v, vector)
				vectors[start+i] = embedding.Normalize(v)
			}

			s.logger.Debug().Int("from", start).Int("to", end).Msg("Batch embedded")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.docs = docs
	s.vectors = vectors

	s.logger.Info().
		Int("documents", len(docs)).
		Str("model", s.embedder.Model()).
		Msg("Corpus indexed")

	return nil
}

func (s *MemoryStore) SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 || len(s.docs) == 0 {
		return []Document{}, nil
	}

	queryVector, err := s.embedder.GenerateEmbeddings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	q := make([]float32, len(queryVector))
	copy(q, queryVector)
	embedding.Normalize(q)

	type scored struct {
		index int
		score float32
	}

	scores := make([]scored, len(s.vectors))
	for i, vector := range s.vectors {
		scores[i] = scored{index: i, score: dot(q, vector)}
	}

	// stable keeps load order among equal scores
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	n := min(k, len(scores))
	results := make([]Document, n)
	for i := range n {
		results[i] = s.docs[scores[i].index]
	}

	return results, nil
}

func (s *MemoryStore) Len() int {
	return len(s.docs)
}

func dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := range n {
		sum += a[i] * b[i]
	}
	return sum
}
