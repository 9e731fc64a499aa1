package service

import (
	"strings"

	"contractiq-backend/models"
)

const (
	groupSeparator = "\n\n"
	chunkOpen      = "\n"
	chunkDelimiter = "\n...\n"
)

// sectionHeader returns the labeled header emitted before a clause type group
func sectionHeader(t models.ClauseType) string {
	return "--- " + strings.ToUpper(string(t)) + " ---"
}

// RenderContext renders a SelectedContext into a single prompt string: one
// labeled section per clause type in priority order, chunks concatenated in
// sequence order within each section. Pure formatting; the output length is
// bounded by the budget the selection was made under.
func RenderContext(selected SelectedContext) string {
	var b strings.Builder
	for i, group := range selected.Groups {
		if i > 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteString(sectionHeader(group.Type))
		for j, chunk := range group.Chunks {
			if j == 0 {
				b.WriteString(chunkOpen)
			} else {
				b.WriteString(chunkDelimiter)
			}
			b.WriteString(chunk.Text)
		}
	}
	return b.String()
}
