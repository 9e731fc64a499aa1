package repository

import (
	"context"
	"fmt"
	"strings"

	"contractiq-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRepository handles database operations for document chunks
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// clauseTypesToStrings converts clause labels for a text[] column
func clauseTypesToStrings(types []models.ClauseType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func stringsToClauseTypes(values []string) []models.ClauseType {
	out := make([]models.ClauseType, 0, len(values))
	for _, v := range values {
		out = append(out, models.ClauseType(v))
	}
	return out
}

// FetchByDocument retrieves every chunk belonging to a source document,
// ordered by chunk index. Returns an empty slice if the document was never
// ingested; the caller decides whether that is a not-found condition.
func (r *ChunkRepository) FetchByDocument(ctx context.Context, sourceDocument string) ([]models.DocumentChunk, error) {
	query := `
		SELECT id, source_document, doc_type, chunk_index, chunk_text, clause_types
		FROM document_chunks
		WHERE source_document = $1
		ORDER BY chunk_index`

	rows, err := r.db.Query(ctx, query, sourceDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to query document chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var chunk models.DocumentChunk
		var clauseTypes []string
		err := rows.Scan(
			&chunk.ID,
			&chunk.SourceDocument,
			&chunk.DocType,
			&chunk.ChunkIndex,
			&chunk.Text,
			&clauseTypes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document chunk: %w", err)
		}
		chunk.ClauseTypes = stringsToClauseTypes(clauseTypes)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document chunks: %w", err)
	}

	return chunks, nil
}

// Search performs a vector similarity search over chunks of the given
// document type, ordered by cosine distance
func (r *ChunkRepository) Search(
	ctx context.Context,
	embedding []float64,
	docType string,
	limit int,
) ([]models.DocumentChunk, error) {
	if len(embedding) != 768 {
		return nil, fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	vectorStr := formatVector(embedding)

	query := `
		SELECT
			id,
			source_document,
			doc_type,
			chunk_index,
			chunk_text,
			clause_types,
			embedding <=> $1::vector AS distance
		FROM document_chunks
		WHERE doc_type = $2
		ORDER BY
			embedding <=> $1::vector
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, vectorStr, docType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query document chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var chunk models.DocumentChunk
		var clauseTypes []string
		err := rows.Scan(
			&chunk.ID,
			&chunk.SourceDocument,
			&chunk.DocType,
			&chunk.ChunkIndex,
			&chunk.Text,
			&clauseTypes,
			&chunk.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document chunk: %w", err)
		}
		chunk.ClauseTypes = stringsToClauseTypes(clauseTypes)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document chunks: %w", err)
	}

	return chunks, nil
}

// Upsert inserts chunks, replacing any existing row for the same document and
// index so that re-ingestion does not create duplicates
func (r *ChunkRepository) Upsert(ctx context.Context, chunks []models.DocumentChunk) error {
	query := `
		INSERT INTO document_chunks (
			source_document, doc_type, chunk_index, chunk_text, clause_types, embedding
		) VALUES ($1, $2, $3, $4, $5, $6::vector)
		ON CONFLICT (source_document, chunk_index) DO UPDATE SET
			doc_type = EXCLUDED.doc_type,
			chunk_text = EXCLUDED.chunk_text,
			clause_types = EXCLUDED.clause_types,
			embedding = EXCLUDED.embedding`

	for _, chunk := range chunks {
		_, err := r.db.Exec(
			ctx, query,
			chunk.SourceDocument,
			chunk.DocType,
			chunk.ChunkIndex,
			chunk.Text,
			clauseTypesToStrings(chunk.ClauseTypes),
			formatVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %d of %s: %w", chunk.ChunkIndex, chunk.SourceDocument, err)
		}
	}

	return nil
}

// CountByDocument returns how many chunks are stored for a source document
func (r *ChunkRepository) CountByDocument(ctx context.Context, sourceDocument string) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM document_chunks WHERE source_document = $1",
		sourceDocument,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
