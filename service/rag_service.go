package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"contractiq-backend/models"
)

// Cosine distance cutoff for relevance; pgvector's <=> returns 0 for
// identical vectors
const relevanceThreshold = 0.7

const defaultTopK = 3

const answerTemperature = 0.2

// ChunkSearcher is the similarity-search collaborator used by the Q&A path
type ChunkSearcher interface {
	Search(ctx context.Context, embedding []float64, docType string, limit int) ([]models.DocumentChunk, error)
}

// RAGService answers natural-language questions over the policy corpus
type RAGService struct {
	searcher ChunkSearcher
	embedder Embedder
	backend  Generator
}

// RAGServiceOption is a functional option for RAGService
type RAGServiceOption func(*RAGService)

// RAGWithChunkSearcher sets the similarity searcher
func RAGWithChunkSearcher(searcher ChunkSearcher) RAGServiceOption {
	return func(s *RAGService) {
		s.searcher = searcher
	}
}

// RAGWithEmbedder sets the query embedder
func RAGWithEmbedder(embedder Embedder) RAGServiceOption {
	return func(s *RAGService) {
		s.embedder = embedder
	}
}

// RAGWithGenerator sets the generation backend
func RAGWithGenerator(backend Generator) RAGServiceOption {
	return func(s *RAGService) {
		s.backend = backend
	}
}

// NewRAGService creates a new RAG service
func NewRAGService(opts ...RAGServiceOption) *RAGService {
	s := &RAGService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer is the result of a policy question
type Answer struct {
	Text      string    `json:"answer"`
	Citations []string  `json:"citations"`
	Scores    []float64 `json:"similarity_scores"`
}

// AnswerQuestion retrieves the top-k most relevant policy chunks, filters
// them by the relevance threshold, and generates a cited answer. When nothing
// relevant is found the answer says so without calling the backend.
func (s *RAGService) AnswerQuestion(ctx context.Context, question string, topK int) (*Answer, error) {
	if s.searcher == nil {
		return nil, errors.New("chunk searcher not set")
	}
	if s.embedder == nil {
		return nil, errors.New("embedder not set")
	}
	if s.backend == nil {
		return nil, errors.New("generation backend not set")
	}

	if topK <= 0 {
		topK = defaultTopK
	}

	embedding, err := s.embedder.EmbedText(ctx, question, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	hits, err := s.searcher.Search(ctx, embedding, models.DocTypePolicy, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	var relevant []models.DocumentChunk
	for _, hit := range hits {
		if hit.Distance < relevanceThreshold {
			relevant = append(relevant, hit)
		}
	}

	if len(relevant) == 0 {
		return &Answer{
			Text:      "No relevant info found.",
			Citations: []string{},
			Scores:    []float64{},
		}, nil
	}

	var contextBuilder strings.Builder
	for i, chunk := range relevant {
		if i > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(fmt.Sprintf("Source: %s\nContent: %s", chunk.SourceDocument, chunk.Text))
	}

	prompt := fmt.Sprintf(`You are a helpful compliance assistant. Answer the question based ONLY on the provided context.
If the answer is not in the context, say "No relevant info found."
Include citations to the source documents.

Context:
%s

Question: %s`, contextBuilder.String(), question)

	answer, err := s.backend.Generate(ctx, prompt, answerTemperature)
	if err != nil {
		return nil, err
	}

	log.Printf("Answered question with %d of %d retrieved chunks", len(relevant), len(hits))

	seen := make(map[string]bool)
	citations := make([]string, 0, len(relevant))
	scores := make([]float64, 0, len(relevant))
	for _, chunk := range relevant {
		if !seen[chunk.SourceDocument] {
			seen[chunk.SourceDocument] = true
			citations = append(citations, chunk.SourceDocument)
		}
		scores = append(scores, chunk.Distance)
	}

	return &Answer{
		Text:      answer,
		Citations: citations,
		Scores:    scores,
	}, nil
}
