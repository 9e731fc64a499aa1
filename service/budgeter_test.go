package service

import (
	"strings"
	"testing"

	"contractiq-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(idx int, text string, types ...models.ClauseType) models.DocumentChunk {
	return models.DocumentChunk{
		SourceDocument: "contract.pdf",
		DocType:        models.DocTypeContract,
		ChunkIndex:     idx,
		Text:           text,
		ClauseTypes:    types,
	}
}

func selectedTexts(sel SelectedContext) []string {
	var texts []string
	for _, g := range sel.Groups {
		for _, c := range g.Chunks {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

func TestSelectContextFitsExactScenario(t *testing.T) {
	chunks := []models.DocumentChunk{
		chunk(0, "A Corp and B LLC", models.ClauseParties),
		chunk(1, "Net 30 days", models.ClausePaymentTerms),
		chunk(2, strings.Repeat("x", 90), models.ClauseParties),
	}
	required := []models.ClauseType{models.ClauseParties, models.ClausePaymentTerms}

	sel := SelectContext(chunks, 100, required)

	assert.Equal(t, []string{"A Corp and B LLC", "Net 30 days"}, selectedTexts(sel))
	assert.LessOrEqual(t, len(RenderContext(sel)), 100)
}

func TestSelectContextBudgetInvariant(t *testing.T) {
	chunks := []models.DocumentChunk{
		chunk(0, strings.Repeat("a", 120), models.ClauseParties),
		chunk(1, strings.Repeat("b", 80), models.ClauseTermination),
		chunk(2, strings.Repeat("c", 300), models.ClausePaymentTerms),
		chunk(3, strings.Repeat("d", 40), models.ClauseGoverningLaw),
		chunk(4, strings.Repeat("e", 500), models.ClauseParties, models.ClauseLiability),
	}

	for _, budget := range []int{0, 50, 100, 200, 400, 1000, 5000} {
		sel := SelectContext(chunks, budget, RequiredClauseTypes)
		assert.LessOrEqual(t, len(RenderContext(sel)), budget,
			"rendered context must fit budget %d", budget)
	}
}

func TestSelectContextNoSpuriousInclusions(t *testing.T) {
	chunks := []models.DocumentChunk{
		chunk(0, "matches nothing"),
		chunk(1, "termination text", models.ClauseTermination),
		chunk(2, "liability text", models.ClauseLiability),
	}
	required := []models.ClauseType{models.ClauseTermination}

	sel := SelectContext(chunks, 10000, required)

	assert.Equal(t, []string{"termination text"}, selectedTexts(sel))
}

func TestSelectContextDedupesMultiLabelChunks(t *testing.T) {
	shared := chunk(0, "payment due upon termination", models.ClauseTermination, models.ClausePaymentTerms)
	chunks := []models.DocumentChunk{shared}
	required := []models.ClauseType{models.ClauseTermination, models.ClausePaymentTerms}

	sel := SelectContext(chunks, 10000, required)

	require.Len(t, sel.Groups, 2)
	// Included exactly once, under the higher-priority type
	assert.Len(t, sel.Groups[0].Chunks, 1)
	assert.Empty(t, sel.Groups[1].Chunks)
	assert.Equal(t, 1, sel.ChunkCount())
}

func TestSelectContextSkipsOversizedButContinues(t *testing.T) {
	chunks := []models.DocumentChunk{
		chunk(0, strings.Repeat("x", 5000), models.ClauseParties),
		chunk(1, "short governing law text", models.ClauseGoverningLaw),
	}
	required := []models.ClauseType{models.ClauseParties, models.ClauseGoverningLaw}

	sel := SelectContext(chunks, 200, required)

	// The oversized parties chunk is skipped; the lower-priority type still
	// gets its chance at the remaining budget
	assert.Equal(t, []string{"short governing law text"}, selectedTexts(sel))
}

func TestSelectContextPreservesSequenceOrderWithinGroup(t *testing.T) {
	chunks := []models.DocumentChunk{
		chunk(3, "third", models.ClauseParties),
		chunk(1, "first", models.ClauseParties),
		chunk(2, "second", models.ClauseParties),
	}
	required := []models.ClauseType{models.ClauseParties}

	sel := SelectContext(chunks, 10000, required)

	assert.Equal(t, []string{"first", "second", "third"}, selectedTexts(sel))
}

func TestSelectContextEmptyWhenNothingMatches(t *testing.T) {
	chunks := []models.DocumentChunk{
		chunk(0, "no labels here"),
	}

	sel := SelectContext(chunks, 10000, RequiredClauseTypes)

	assert.Equal(t, 0, sel.ChunkCount())
}

func TestSelectContextEmptyWhenBudgetBelowHeaders(t *testing.T) {
	chunks := []models.DocumentChunk{
		chunk(0, "text", models.ClauseParties),
	}

	sel := SelectContext(chunks, 5, RequiredClauseTypes)

	assert.Equal(t, 0, sel.ChunkCount())
	assert.Empty(t, RenderContext(sel))
}
