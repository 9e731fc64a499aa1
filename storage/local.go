package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage keeps documents on the local filesystem under a base
// directory, used in development and single-node deployments
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a local storage backend rooted at basePath
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Upload writes a document to disk under its corpus directory
func (s *LocalStorage) Upload(ctx context.Context, docType string, docID uuid.UUID, filename string, data io.Reader) (string, error) {
	key := documentKey(docType, docID, filename)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	return key, nil
}

// Download opens a stored document for reading
func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	return file, nil
}

// Delete removes a stored document
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}
