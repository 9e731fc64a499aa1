package service

import (
	"context"
	"errors"
	"testing"

	"contractiq-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChunkStore struct {
	chunks map[string][]models.DocumentChunk
	err    error
}

func (f *fakeChunkStore) FetchByDocument(ctx context.Context, sourceDocument string) ([]models.DocumentChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks[sourceDocument], nil
}

func contractChunks() []models.DocumentChunk {
	return []models.DocumentChunk{
		chunk(0, "This Agreement is entered into by Alpha Corp and Beta LLC."),
		chunk(1, "The effective date of this Agreement is January 1, 2024."),
		chunk(2, "Either party may terminate this Agreement upon material breach."),
		chunk(3, "All fees are due within thirty days of invoice."),
		chunk(4, "This Agreement is governed by the laws of the State of Delaware."),
	}
}

func TestAnalyzeContractEndToEnd(t *testing.T) {
	store := &fakeChunkStore{chunks: map[string][]models.DocumentChunk{
		"msa.pdf": contractChunks(),
	}}
	gen := &fakeGenerator{response: `{
		"parties": ["Alpha Corp", "Beta LLC"],
		"effective_date": "January 1, 2024",
		"termination_clause": "Termination upon material breach.",
		"payment_terms": {"description": "Net 30", "due_date": "30 days"},
		"governing_law": "Delaware",
		"confidentiality_clause": null
	}`}

	analyzer := NewAnalyzerService(
		AnalyzerWithChunkStore(store),
		AnalyzerWithGenerator(gen),
	)

	record, err := analyzer.AnalyzeContract(context.Background(), "msa.pdf")

	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "msa.pdf", record.Document)
	assert.Equal(t, []string{"Alpha Corp", "Beta LLC"}, record.Parties)
	assert.Equal(t, models.FieldUnfilled, record.FieldStatus[models.FieldConfidentiality])
	// The assembled prompt carries the classified sections in priority order
	assert.Contains(t, gen.lastPrompt, "--- PARTIES ---")
	assert.Contains(t, gen.lastPrompt, "--- GOVERNING_LAW ---")
}

func TestAnalyzeContractNotFound(t *testing.T) {
	store := &fakeChunkStore{chunks: map[string][]models.DocumentChunk{}}
	analyzer := NewAnalyzerService(
		AnalyzerWithChunkStore(store),
		AnalyzerWithGenerator(&fakeGenerator{}),
	)

	_, err := analyzer.AnalyzeContract(context.Background(), "never-ingested.pdf")

	assert.True(t, errors.Is(err, ErrContractNotFound))
}

func TestAnalyzeContractGenerationUnavailable(t *testing.T) {
	store := &fakeChunkStore{chunks: map[string][]models.DocumentChunk{
		"msa.pdf": contractChunks(),
	}}
	analyzer := NewAnalyzerService(
		AnalyzerWithChunkStore(store),
		AnalyzerWithGenerator(&fakeGenerator{err: ErrGenerationUnavailable}),
	)

	_, err := analyzer.AnalyzeContract(context.Background(), "msa.pdf")

	assert.True(t, errors.Is(err, ErrGenerationUnavailable))
}

func TestAnalyzeContractNoMatchingChunks(t *testing.T) {
	store := &fakeChunkStore{chunks: map[string][]models.DocumentChunk{
		"odd.pdf": {chunk(0, "The quick brown fox jumps over the lazy dog.")},
	}}
	gen := &fakeGenerator{response: `{}`}
	analyzer := NewAnalyzerService(
		AnalyzerWithChunkStore(store),
		AnalyzerWithGenerator(gen),
	)

	record, err := analyzer.AnalyzeContract(context.Background(), "odd.pdf")

	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls, "no matching clause types means no generation call")
	for _, field := range models.SchemaFields {
		assert.Equal(t, models.FieldUnfilled, record.FieldStatus[field], field)
	}
	assert.Equal(t, 100, record.RiskScore)
}

func TestAnalyzeContractStoreErrorWraps(t *testing.T) {
	store := &fakeChunkStore{err: errors.New("connection refused")}
	analyzer := NewAnalyzerService(
		AnalyzerWithChunkStore(store),
		AnalyzerWithGenerator(&fakeGenerator{}),
	)

	_, err := analyzer.AnalyzeContract(context.Background(), "msa.pdf")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrContractNotFound))
}
