package ingestion

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/corpus"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/database"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/embedding"
	"github.com/rs/zerolog"
)

const DefaultBatchSize = 25

// DocumentWriter is the part of database.DB the pipeline writes to.
type DocumentWriter interface {
	InsertDocuments(ctx context.Context, rows []database.DocumentRow, embeddings [][]float32) error
	CountDocuments(ctx context.Context) (int, error)
	DeleteAllDocuments(ctx context.Context) error
	DeleteDocumentsFrom(ctx context.Context, position int) error
}

type Pipeline struct {
	embedder  embedding.Embedder
	writer    DocumentWriter
	batchSize int
	logger    *zerolog.Logger
}

func NewPipeline(embedder embedding.Embedder, writer DocumentWriter, batchSize int, logger *zerolog.Logger) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Pipeline{
		embedder:  embedder,
		writer:    writer,
		batchSize: batchSize,
		logger:    logger,
	}
}

// IngestFile loads the synopsis file and stores every line with its embedding.
func (p *Pipeline) IngestFile(ctx context.Context, filePath string) (int, error) {
	p.logger.Info().Str("file", filePath).Msg("Starting ingestion")

	docs, err := corpus.LoadDocuments(filePath)
	if err != nil {
		return 0, fmt.Errorf("Failed to parse file. Error: %w", err)
	}
	p.logger.Info().Int("documents", len(docs)).Msg("Documents parsed")

	if err := p.Ingest(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Ingest embeds and stores docs batch by batch. Each batch commits on its own,
// so a failed run leaves the earlier batches in place.
func (p *Pipeline) Ingest(ctx context.Context, docs []corpus.Document) error {
	for i := 0; i < len(docs); i += p.batchSize {
		end := min(i+p.batchSize, len(docs))
		subset := docs[i:end]

		contents := make([]string, 0, len(subset))
		rows := make([]database.DocumentRow, 0, len(subset))
		for _, doc := range subset {
			contents = append(contents, doc.Content)
			rows = append(rows, database.DocumentRow{Position: doc.Position, Content: doc.Content})
		}

		batchEmbeddings, err := p.embedder.GenerateBatchEmbeddings(ctx, contents)
		if err != nil {
			return fmt.Errorf("Failed to generate embeddings. Error: %w", err)
		}

		if err := p.writer.InsertDocuments(ctx, rows, batchEmbeddings); err != nil {
			return fmt.Errorf("failed to store batch %d: %w", i/p.batchSize+1, err)
		}

		p.logger.Info().Int("batch", i/p.batchSize+1).Int("documents", len(rows)).Msg("Batch complete")
	}

	p.logger.Info().Int("total_documents", len(docs)).Msg("Ingestion complete")
	return nil
}

// EnsureIngested reuses the persisted embeddings when the stored count matches
// docs. Otherwise it re-runs ingestion over every document, which upserts by
// position, and drops rows past the end of docs. A run interrupted between
// batches is completed on the next call.
func (p *Pipeline) EnsureIngested(ctx context.Context, docs []corpus.Document) error {
	count, err := p.writer.CountDocuments(ctx)
	if err != nil {
		return err
	}
	if count == len(docs) {
		p.logger.Info().Int("documents", count).Msg("Persisted corpus found, skipping ingestion")
		return nil
	}

	if count > 0 {
		p.logger.Warn().
			Int("stored", count).
			Int("expected", len(docs)).
			Msg("Persisted corpus is out of sync, re-ingesting")

		if err := p.writer.DeleteDocumentsFrom(ctx, len(docs)); err != nil {
			return err
		}
	}

	if err := p.Ingest(ctx, docs); err != nil {
		return err
	}

	count, err = p.writer.CountDocuments(ctx)
	if err != nil {
		return err
	}
	if count != len(docs) {
		return fmt.Errorf("stored %d documents, expected %d", count, len(docs))
	}
	return nil
}

// Reingest drops every stored document and ingests filePath from scratch.
func (p *Pipeline) Reingest(ctx context.Context, filePath string) (int, error) {
	if err := p.writer.DeleteAllDocuments(ctx); err != nil {
		return 0, err
	}
	return p.IngestFile(ctx, filePath)
}
