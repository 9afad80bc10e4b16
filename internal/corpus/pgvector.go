package corpus

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/database"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/embedding"
	"github.com/rs/zerolog"
)

// VectorRepository is the part of database.DB the pgvector store reads from.
type VectorRepository interface {
	SemanticSearch(ctx context.Context, queryEmbeddings []float32, limit int) ([]database.DocumentRow, error)
	CountDocuments(ctx context.Context) (int, error)
}

// PgvectorStore ranks documents inside Postgres with the cosine distance operator.
type PgvectorStore struct {
	repo     VectorRepository
	embedder embedding.Embedder
	logger   *zerolog.Logger
	count    int
}

// NewPgvectorStore counts the persisted documents once; ingestion must have
// finished before it is called.
func NewPgvectorStore(ctx context.Context, repo VectorRepository, embedder embedding.Embedder, logger *zerolog.Logger) (*PgvectorStore, error) {
	count, err := repo.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("documents", count).Msg("Using pgvector corpus")

	return &PgvectorStore{
		repo:     repo,
		embedder: embedder,
		logger:   logger,
		count:    count,
	}, nil
}

func (s *PgvectorStore) SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		return []Document{}, nil
	}

	queryEmbeddings, err := s.embedder.GenerateEmbeddings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := s.repo.SemanticSearch(ctx, queryEmbeddings, k)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{Position: row.Position, Content: row.Content})
	}

	s.logger.Debug().Int("results", len(docs)).Msg("pgvector search completed")
	return docs, nil
}

func (s *PgvectorStore) Len() int {
	return s.count
}
