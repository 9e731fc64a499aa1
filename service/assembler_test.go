package service

import (
	"strings"
	"testing"

	"contractiq-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderContextGroupsWithHeaders(t *testing.T) {
	sel := SelectedContext{
		Groups: []ContextGroup{
			{Type: models.ClauseParties, Chunks: []models.DocumentChunk{
				chunk(0, "Alpha Corp and Beta LLC"),
				chunk(4, "signed by both parties"),
			}},
			{Type: models.ClausePaymentTerms, Chunks: []models.DocumentChunk{
				chunk(2, "Net 30 days"),
			}},
		},
	}

	rendered := RenderContext(sel)

	expected := "--- PARTIES ---\n" +
		"Alpha Corp and Beta LLC\n...\nsigned by both parties" +
		"\n\n--- PAYMENT_TERMS ---\n" +
		"Net 30 days"
	assert.Equal(t, expected, rendered)
}

func TestRenderContextEmptyGroupKeepsHeader(t *testing.T) {
	sel := SelectedContext{
		Groups: []ContextGroup{
			{Type: models.ClauseParties, Chunks: []models.DocumentChunk{chunk(0, "Alpha Corp")}},
			{Type: models.ClauseGoverningLaw},
		},
	}

	rendered := RenderContext(sel)

	assert.True(t, strings.HasSuffix(rendered, "--- GOVERNING_LAW ---"),
		"empty group renders its header with no body")
}

func TestRenderContextIdempotent(t *testing.T) {
	sel := SelectContext([]models.DocumentChunk{
		chunk(0, "termination upon breach", models.ClauseTermination),
		chunk(1, "fees due on invoice", models.ClausePaymentTerms),
	}, DefaultContextBudget, RequiredClauseTypes)

	assert.Equal(t, RenderContext(sel), RenderContext(sel))
}

func TestRenderContextEmptySelection(t *testing.T) {
	assert.Equal(t, "", RenderContext(SelectedContext{}))
}
