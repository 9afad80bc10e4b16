package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// EnsureSchema creates the pgvector extension, the documents table and its HNSW index.
func (db *DB) EnsureSchema(ctx context.Context, dimensions int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS anime_documents (
			position   INTEGER PRIMARY KEY,
			content    TEXT NOT NULL,
			embedding  vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dimensions),
		`CREATE INDEX IF NOT EXISTS anime_documents_embedding_idx
			ON anime_documents USING hnsw (embedding vector_cosine_ops)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}

func (db *DB) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM anime_documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("Unable to count documents: %w", err)
	}
	return count, nil
}

func (db *DB) DeleteAllDocuments(ctx context.Context) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM anime_documents`)
	if err != nil {
		return fmt.Errorf("Failed to delete documents: %w", err)
	}

	log.Info().Int64("rows", result.RowsAffected()).Msg("Documents deleted")
	return nil
}

// DeleteDocumentsFrom removes every document at or after position.
func (db *DB) DeleteDocumentsFrom(ctx context.Context, position int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM anime_documents WHERE position >= $1`, position)
	if err != nil {
		return fmt.Errorf("Failed to delete documents: %w", err)
	}

	log.Info().Int64("rows", result.RowsAffected()).Int("from", position).Msg("Trailing documents deleted")
	return nil
}

// InsertDocuments stores rows and their embeddings in one transaction.
func (db *DB) InsertDocuments(ctx context.Context, rows []DocumentRow, embeddings [][]float32) error {
	if len(rows) != len(embeddings) {
		return fmt.Errorf("got %d rows but %d embeddings", len(rows), len(embeddings))
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if we don't commit

	query := `
		INSERT INTO anime_documents (position, content, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (position) DO UPDATE
		SET content = EXCLUDED.content, embedding = EXCLUDED.embedding`

	batch := &pgx.Batch{}
	for i, row := range rows {
		batch.Queue(query, row.Position, row.Content, pgvector.NewVector(embeddings[i]))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert documents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// hnsw.ef_search bounds how many rows an HNSW scan can return.
const (
	minEfSearch = 40
	maxEfSearch = 1000
)

// semanticSearchQuery orders by the bare distance expression so the planner
// can serve it from anime_documents_embedding_idx.
const semanticSearchQuery = `
	SELECT
	  position,
	  content,
	  embedding <=> $1 AS distance
	FROM anime_documents
	ORDER BY embedding <=> $1
	LIMIT $2`

// SemanticSearch ranks documents by cosine distance to the query embedding.
// Rows at equal distance have no defined order.
func (db *DB) SemanticSearch(ctx context.Context, queryEmbeddings []float32, limit int) ([]DocumentRow, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	efSearch := min(max(limit, minEfSearch), maxEfSearch)
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL hnsw.ef_search = %d", efSearch)); err != nil {
		return nil, fmt.Errorf("failed to set hnsw.ef_search: %w", err)
	}

	rows, err := tx.Query(ctx, semanticSearchQuery, pgvector.NewVector(queryEmbeddings), limit)
	if err != nil {
		return nil, fmt.Errorf("Unable to query the database: %w", err)
	}
	defer rows.Close()

	var documents []DocumentRow
	for rows.Next() {
		var doc DocumentRow
		if err := rows.Scan(&doc.Position, &doc.Content, &doc.Distance); err != nil {
			return nil, fmt.Errorf("Failed to scan document: %w", err)
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return documents, nil
}
