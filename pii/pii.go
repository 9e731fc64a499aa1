// Package pii masks personally identifiable information in document text
// before it is stored or embedded. Matched spans are replaced with [LABEL]
// placeholders so masked text stays readable as retrieval context.
package pii

import (
	"regexp"
)

type pattern struct {
	label string
	re    *regexp.Regexp
}

// Patterns are applied in order; earlier patterns claim their spans first
var patterns = []pattern{
	{"EMAIL", regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)},
	{"SSN", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"PHONE", regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?\b\d{3}\)?[\s.\-]\d{3}[\s.\-]\d{4}\b`)},
	{"PERSON", regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof)\.\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`)},
}

// MaskPII replaces detected PII spans with [LABEL] placeholders
func MaskPII(text string) string {
	if text == "" {
		return ""
	}

	result := text
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, "["+p.label+"]")
	}
	return result
}
