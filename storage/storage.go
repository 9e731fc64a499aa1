package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Storage persists the raw source documents (policies and contracts) that
// the ingestion pipeline later chunks and embeds. Objects are keyed by a
// storage path returned from Upload; the path is opaque to callers and is
// recorded on the document row.
type Storage interface {
	// Upload stores a document under its corpus and returns the storage path
	Upload(ctx context.Context, docType string, docID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download opens a previously stored document for reading
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a stored document; deleting a missing object is not an error
	Delete(ctx context.Context, storagePath string) error
}

// BackendType selects the storage implementation
type BackendType string

const (
	BackendLocal BackendType = "local"
	BackendS3    BackendType = "s3"
)

// Config holds storage backend configuration
type Config struct {
	Backend      BackendType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a storage backend from the given configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendLocal:
		return NewLocalStorage(cfg.LocalPath)
	case BackendS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// NewStorageFromEnv creates a storage backend from environment variables.
// STORAGE_BACKEND selects the implementation and defaults to local.
func NewStorageFromEnv() (Storage, error) {
	backend := BackendType(os.Getenv("STORAGE_BACKEND"))
	if backend == "" {
		backend = BackendLocal
	}

	switch backend {
	case BackendLocal:
		localPath := os.Getenv("STORAGE_LOCAL_PATH")
		if localPath == "" {
			localPath = "./data/documents"
		}
		return NewLocalStorage(localPath)

	case BackendS3:
		cfg := Config{
			Backend:      BackendS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// documentKey builds the storage path for a document. Keys are partitioned
// by corpus so policies and contracts never collide, and carry the document
// ID so repeated uploads of the same filename stay distinct:
//
//	contract/3f8a.../3f8a..._master_services_agreement.pdf
func documentKey(docType string, docID uuid.UUID, filename string) string {
	base := sanitizeFilename(filename)
	return path.Join(docType, docID.String(), fmt.Sprintf("%s_%s", docID.String(), base))
}

// sanitizeFilename strips path separators and whitespace from an uploaded
// filename so it is safe to embed in a storage key
func sanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ToLower(base)
	replacer := strings.NewReplacer(" ", "_", "\t", "_")
	return replacer.Replace(base)
}

// contentTypeFor maps a document filename to its MIME type. Only the
// ingestible formats get specific types.
func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
