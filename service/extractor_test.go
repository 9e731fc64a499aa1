package service

import (
	"context"
	"errors"
	"testing"

	"contractiq-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const sampleContext = "--- PARTIES ---\nAlpha Corp and Beta LLC enter into this Agreement."

func TestExtractFillsAllFields(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"parties": ["Alpha Corp", "Beta LLC"],
		"effective_date": "2024-01-01",
		"termination_clause": "Either party may terminate on 30 days notice.",
		"payment_terms": {"description": "Net 30", "due_date": "30 days after invoice"},
		"governing_law": "Delaware",
		"confidentiality_clause": "Mutual NDA for 3 years.",
		"notes": "Standard MSA."
	}`}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, []string{"Alpha Corp", "Beta LLC"}, record.Parties)
	assert.Equal(t, "2024-01-01", record.EffectiveDate)
	assert.Equal(t, "Delaware", record.GoverningLaw)
	assert.Equal(t, "Net 30", record.PaymentTerms.Description)
	assert.Equal(t, "30 days after invoice", record.PaymentTerms.DueDate)
	for _, field := range models.SchemaFields {
		assert.Equal(t, models.FieldFilled, record.FieldStatus[field], field)
	}
	assert.Equal(t, 20, record.RiskScore)
}

func TestExtractStripsMarkdownFences(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"governing_law\": \"New York\"}\n```"}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err)
	assert.Equal(t, "New York", record.GoverningLaw)
	assert.Equal(t, models.FieldFilled, record.FieldStatus[models.FieldGoverningLaw])
}

func TestExtractMissingFieldsStayUnfilled(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"parties": ["Alpha Corp"],
		"effective_date": null,
		"termination_clause": ""
	}`}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err)
	assert.Equal(t, models.FieldFilled, record.FieldStatus[models.FieldParties])
	assert.Equal(t, models.FieldUnfilled, record.FieldStatus[models.FieldEffectiveDate])
	assert.Equal(t, models.FieldUnfilled, record.FieldStatus[models.FieldTermination])
	assert.Equal(t, "", record.EffectiveDate)
	assert.Equal(t, "", record.TerminationClause)
	// 5 unfilled fields plus the two high-risk indicators
	assert.Equal(t, 90, record.RiskScore)
}

func TestExtractUnparseableResponseDegrades(t *testing.T) {
	gen := &fakeGenerator{response: "I'm sorry, I cannot produce JSON today."}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err, "unparseable output is a degraded result, not an error")
	for _, field := range models.SchemaFields {
		assert.Equal(t, models.FieldUnfilled, record.FieldStatus[field], field)
	}
	assert.Equal(t, 100, record.RiskScore)
	assert.NotEmpty(t, record.Notes)
}

func TestExtractCoercesStringParties(t *testing.T) {
	gen := &fakeGenerator{response: `{"parties": "Alpha Corp, Beta LLC"}`}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha Corp", "Beta LLC"}, record.Parties)
}

func TestExtractCoercesListIntoStringField(t *testing.T) {
	gen := &fakeGenerator{response: `{"termination_clause": ["30 days notice", "for cause immediately"]}`}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err)
	assert.Equal(t, "30 days notice, for cause immediately", record.TerminationClause)
}

func TestExtractCoercesStringPaymentTerms(t *testing.T) {
	gen := &fakeGenerator{response: `{"payment_terms": "Net 45 from invoice date"}`}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err)
	assert.Equal(t, "Net 45 from invoice date", record.PaymentTerms.Description)
	assert.Equal(t, models.FieldFilled, record.FieldStatus[models.FieldPaymentTerms])
}

func TestExtractEmptyContextSkipsBackend(t *testing.T) {
	gen := &fakeGenerator{response: `{}`}
	extractor := NewExtractor(gen)

	record, err := extractor.Extract(context.Background(), "msa.pdf", "   ")

	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 100, record.RiskScore)
}

func TestExtractBackendFailurePropagates(t *testing.T) {
	gen := &fakeGenerator{err: ErrGenerationUnavailable}
	extractor := NewExtractor(gen)

	_, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	assert.True(t, errors.Is(err, ErrGenerationUnavailable))
}

func TestExtractPromptNamesEverySchemaField(t *testing.T) {
	gen := &fakeGenerator{response: `{}`}
	extractor := NewExtractor(gen)

	_, err := extractor.Extract(context.Background(), "msa.pdf", sampleContext)

	require.NoError(t, err)
	for _, field := range models.SchemaFields {
		assert.Contains(t, gen.lastPrompt, field)
	}
}
