package service

import (
	"sort"

	"contractiq-backend/models"
)

// ContextGroup holds the chunks selected for one clause type, in sequence
// order
type ContextGroup struct {
	Type   models.ClauseType
	Chunks []models.DocumentChunk
}

// SelectedContext is the budget-constrained, priority-ordered subset of
// chunks assembled for one extraction call
type SelectedContext struct {
	Groups []ContextGroup
}

// ChunkCount returns the total number of selected chunks across all groups
func (s SelectedContext) ChunkCount() int {
	count := 0
	for _, g := range s.Groups {
		count += len(g.Chunks)
	}
	return count
}

// RequiredClauseTypes is the schema-derived priority order used for contract
// analysis. Earlier types are more important to the extraction and claim
// budget first.
var RequiredClauseTypes = []models.ClauseType{
	models.ClauseParties,
	models.ClauseEffectiveDate,
	models.ClauseTermination,
	models.ClausePaymentTerms,
	models.ClauseGoverningLaw,
	models.ClauseConfidentiality,
	models.ClauseLiability,
}

// SelectContext selects an ordered subset of labeled chunks whose rendered
// length fits within budget (in characters), maximizing coverage of the
// required clause types.
//
// Types are visited in the given priority order; within a type, chunks are
// taken greedily in sequence order. A chunk that would overflow the budget is
// skipped but selection continues, so lower-priority types that still fit get
// a chance. A chunk matching several required types is included once, under
// the highest-priority type. Chunks matching no required type are excluded.
//
// The budget accounts for the exact rendered form produced by Render,
// including section headers and delimiters, so the rendering can never exceed
// it. If the budget cannot even fit the bare section headers, the result is
// empty.
func SelectContext(chunks []models.DocumentChunk, budget int, requiredTypes []models.ClauseType) SelectedContext {
	if len(requiredTypes) == 0 {
		return SelectedContext{}
	}

	// Sequence order defines the total order within each group. Stable sort
	// keeps input order for chunks with identical indexes.
	ordered := make([]models.DocumentChunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ChunkIndex < ordered[j].ChunkIndex
	})

	// Headers and group separators are charged up front
	used := 0
	for i, t := range requiredTypes {
		if i > 0 {
			used += len(groupSeparator)
		}
		used += len(sectionHeader(t))
	}
	if used > budget {
		return SelectedContext{}
	}

	groups := make([]ContextGroup, len(requiredTypes))
	for i, t := range requiredTypes {
		groups[i] = ContextGroup{Type: t}
	}

	// Dedupe by position in the ordered sequence: a chunk included under one
	// type is never re-inserted under a later type it also matches
	included := make(map[int]bool)

	for gi, t := range requiredTypes {
		for pos, chunk := range ordered {
			if included[pos] || !chunk.HasClauseType(t) {
				continue
			}
			cost := len(chunk.Text) + len(chunkOpen)
			if len(groups[gi].Chunks) > 0 {
				cost = len(chunk.Text) + len(chunkDelimiter)
			}
			if used+cost > budget {
				continue
			}
			used += cost
			groups[gi].Chunks = append(groups[gi].Chunks, chunk)
			included[pos] = true
		}
	}

	return SelectedContext{Groups: groups}
}
