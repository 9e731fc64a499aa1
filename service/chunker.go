package service

import (
	"strings"
)

// Chunking defaults match the ingestion pipeline: chunks of up to 1000
// characters with 150 characters of overlap between neighbors
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

// separators tried in order when splitting oversized text; paragraph breaks
// are preferred over sentence breaks over word breaks
var chunkSeparators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into chunks of at most chunkSize characters with
// roughly overlap characters shared between consecutive chunks. Boundaries
// prefer paragraph breaks, then line breaks, then sentence ends, then word
// breaks. Whitespace-only fragments are dropped.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) <= chunkSize {
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(trimmed) {
		end := start + chunkSize
		if end >= len(trimmed) {
			end = len(trimmed)
		} else {
			end = splitBoundary(trimmed, start, end)
		}

		chunk := strings.TrimSpace(trimmed[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(trimmed) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// splitBoundary picks the best break point in text[start:limit], searching
// the tail of the window for each separator in preference order
func splitBoundary(text string, start, limit int) int {
	window := text[start:limit]
	// Only consider breaks in the back half so chunks stay near full size
	floor := len(window) / 2
	for _, sep := range chunkSeparators {
		if idx := strings.LastIndex(window, sep); idx >= floor {
			return start + idx + len(sep)
		}
	}
	return limit
}
