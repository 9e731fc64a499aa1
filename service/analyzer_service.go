package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"contractiq-backend/models"
)

var (
	ErrContractNotFound      = errors.New("contract not found")
	ErrGenerationUnavailable = errors.New("generation backend unavailable")
)

// DefaultContextBudget caps the rendered extraction context, in characters
const DefaultContextBudget = 6000

// ChunkStore is the document store collaborator consumed by the analyzer
type ChunkStore interface {
	FetchByDocument(ctx context.Context, sourceDocument string) ([]models.DocumentChunk, error)
}

// AnalyzerService runs the contract analysis pipeline: fetch, classify,
// budget-select, render, extract
type AnalyzerService struct {
	chunkStore    ChunkStore
	extractor     *Extractor
	contextBudget int
}

// AnalyzerServiceOption is a functional option for AnalyzerService
type AnalyzerServiceOption func(*AnalyzerService)

// AnalyzerWithChunkStore sets the chunk store
func AnalyzerWithChunkStore(store ChunkStore) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.chunkStore = store
	}
}

// AnalyzerWithGenerator sets the generation backend
func AnalyzerWithGenerator(backend Generator) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.extractor = NewExtractor(backend)
	}
}

// AnalyzerWithContextBudget overrides the rendered context budget
func AnalyzerWithContextBudget(budget int) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.contextBudget = budget
	}
}

// NewAnalyzerService creates a new analyzer service
func NewAnalyzerService(opts ...AnalyzerServiceOption) *AnalyzerService {
	s := &AnalyzerService{
		contextBudget: DefaultContextBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeContract analyzes a named contract and returns its structured
// record. Fails with ErrContractNotFound when the contract was never
// ingested and ErrGenerationUnavailable when the backend cannot be reached;
// an unparseable model response is a degraded success, not a failure.
func (s *AnalyzerService) AnalyzeContract(ctx context.Context, document string) (*models.ContractRecord, error) {
	if s.chunkStore == nil {
		return nil, errors.New("chunk store not set")
	}
	if s.extractor == nil {
		return nil, errors.New("generation backend not set")
	}

	chunks, err := s.chunkStore.FetchByDocument(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrContractNotFound
	}

	// Stored labels may predate lexicon changes; classification is cheap and
	// pure, so always run it fresh
	for i := range chunks {
		chunks[i].ClauseTypes = DetectClauseTypes(chunks[i].Text)
	}

	selected := SelectContext(chunks, s.contextBudget, RequiredClauseTypes)

	// An ingested contract whose chunks match no required type still yields a
	// valid all-unknown record; the extractor handles the empty context
	contextText := ""
	if selected.ChunkCount() > 0 {
		contextText = RenderContext(selected)
	}

	log.Printf("Analyzing contract %s: %d chunks, %d chars of context", document, len(chunks), len(contextText))

	return s.extractor.Extract(ctx, document, contextText)
}
