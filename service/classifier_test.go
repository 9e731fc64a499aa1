package service

import (
	"testing"

	"contractiq-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestDetectClauseTypesSingleLabel(t *testing.T) {
	types := DetectClauseTypes("This Agreement shall be governed by the laws of the State of Delaware.")
	assert.Equal(t, []models.ClauseType{models.ClauseGoverningLaw}, types)
}

func TestDetectClauseTypesMultipleLabels(t *testing.T) {
	types := DetectClauseTypes("All fees are due upon invoice and shall be treated as confidential.")
	assert.Contains(t, types, models.ClausePaymentTerms)
	assert.Contains(t, types, models.ClauseConfidentiality)
}

func TestDetectClauseTypesCaseInsensitive(t *testing.T) {
	types := DetectClauseTypes("EITHER PARTY MAY TERMINATE THIS AGREEMENT FOR CONVENIENCE.")
	assert.Contains(t, types, models.ClauseTermination)
}

func TestDetectClauseTypesNoMatch(t *testing.T) {
	assert.Empty(t, DetectClauseTypes("The quick brown fox jumps over the lazy dog."))
	assert.Empty(t, DetectClauseTypes(""))
}

func TestDetectClauseTypesDeterministic(t *testing.T) {
	text := "The parties agree that payment is due within thirty days of invoice, and either may terminate for breach."
	first := DetectClauseTypes(text)
	second := DetectClauseTypes(text)
	assert.Equal(t, first, second)
}
