package models

import (
	"github.com/google/uuid"
)

// DocumentChunk represents a chunk of text extracted from an ingested document
type DocumentChunk struct {
	ID             uuid.UUID    `json:"id"`
	SourceDocument string       `json:"source_document"`
	DocType        string       `json:"doc_type"` // "policy", "contract"
	ChunkIndex     int          `json:"chunk_index"`
	Text           string       `json:"text"`
	ClauseTypes    []ClauseType `json:"clause_types,omitempty"`
	Embedding      []float64    `json:"-"`
	Distance       float64      `json:"distance,omitempty"` // Vector similarity distance
}

// DocTypePolicy and DocTypeContract are the two corpora the system ingests
const (
	DocTypePolicy   = "policy"
	DocTypeContract = "contract"
)

// HasClauseType reports whether the chunk carries the given label
func (c *DocumentChunk) HasClauseType(t ClauseType) bool {
	for _, ct := range c.ClauseTypes {
		if ct == t {
			return true
		}
	}
	return false
}
