package repository

import (
	"context"

	"contractiq-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for uploaded documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record. The caller assigns the ID so it can
// match the document's storage key.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			id, filename, doc_type, mime_type, size, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.ID,
		doc.Filename,
		doc.DocType,
		doc.MimeType,
		doc.Size,
		doc.StoragePath,
	).Scan(&doc.CreatedAt)

	return err
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc := &models.Document{}
	query := `
		SELECT id, filename, doc_type, mime_type, size, storage_path, created_at
		FROM documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.DocType,
		&doc.MimeType,
		&doc.Size,
		&doc.StoragePath,
		&doc.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// List retrieves all documents, optionally filtered by document type
func (r *DocumentRepository) List(ctx context.Context, docType string) ([]*models.Document, error) {
	query := `
		SELECT id, filename, doc_type, mime_type, size, storage_path, created_at
		FROM documents
		WHERE ($1 = '' OR doc_type = $1)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, docType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.DocType,
			&doc.MimeType,
			&doc.Size,
			&doc.StoragePath,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
