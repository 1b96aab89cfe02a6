package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/parsa-ai/parsa/internal/core/domain"
)

// ChunkRepository stores the retrieval corpus. ListChunks returns
// chunks in insertion order so corpus positions stay stable between
// index rebuilds that see the same data.
type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// ReplaceDocumentChunks swaps a document's chunks atomically so a
// concurrent ListChunks never observes a half-ingested document.
func (r *ChunkRepository) ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM corpus_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}

	for _, content := range chunks {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO corpus_chunks (document_id, content) VALUES ($1, $2)
`, documentID, content); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk tx: %w", err)
	}
	return nil
}

func (r *ChunkRepository) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT document_id, content
FROM corpus_chunks
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.Chunk
	position := 0
	for rows.Next() {
		var documentID, content string
		if err := rows.Scan(&documentID, &content); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, domain.Chunk{
			Content:  content,
			Index:    position,
			Metadata: map[string]string{"document_id": documentID},
		})
		position++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}
