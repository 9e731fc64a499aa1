package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded source document (policy or contract PDF)
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	DocType     string    `json:"doc_type"` // "policy", "contract"
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
