package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"contractiq-backend/models"
)

// Extractor turns free-text generation output into a validated ContractRecord
// with explicit per-field fill status
type Extractor struct {
	backend Generator
}

// NewExtractor creates an extractor around a generation backend
func NewExtractor(backend Generator) *Extractor {
	return &Extractor{backend: backend}
}

const extractionTemperature = 0.1

// Extract invokes the generation backend once with the assembled context and
// coerces the response into a ContractRecord. Parse failures and missing
// fields degrade to unfilled fields, never to an error; only a backend
// failure (ErrGenerationUnavailable) fails the call. An empty context skips
// the backend entirely and returns an all-unfilled record.
func (e *Extractor) Extract(ctx context.Context, document string, contextText string) (*models.ContractRecord, error) {
	record := models.NewUnfilledRecord(document)

	if strings.TrimSpace(contextText) == "" {
		record.Notes = "No contract content matched the extraction schema."
		record.RiskScore = computeRiskScore(record)
		return record, nil
	}

	prompt := buildExtractionPrompt(document, contextText)

	response, err := e.backend.Generate(ctx, prompt, extractionTemperature)
	if err != nil {
		return nil, err
	}

	data, err := parseExtractionResponse(response)
	if err != nil {
		// Degraded but valid: every field stays at the unknown sentinel
		log.Printf("Warning: Failed to parse extraction response for %s: %v", document, err)
		record.Notes = "Failed to parse analysis result."
		record.RiskScore = computeRiskScore(record)
		return record, nil
	}

	fillRecord(record, data)
	record.RiskScore = computeRiskScore(record)
	return record, nil
}

// buildExtractionPrompt names every schema field and demands strict JSON with
// null for anything not found in the context
func buildExtractionPrompt(document string, contextText string) string {
	return fmt.Sprintf(`You are a legal expert. Analyze the following contract text segments and extract the required fields in STRICT JSON format.
Do not include any markdown formatting or explanation. Just the JSON.
Fields required:
- parties: List of parties to the contract.
- effective_date: When does it start?
- termination_clause: Summary of termination rights.
- payment_terms: { "description": "...", "due_date": "..." }
- governing_law: Which jurisdiction?
- confidentiality_clause: Summary of confidentiality obligations.
- notes: Any other key observations.

If a field is not found in the segments, use null. Document: %q.

Contract Segments:
%s`, document, contextText)
}

// parseExtractionResponse strips markdown code fences and interprets the
// response as a field-to-value mapping
func parseExtractionResponse(response string) (map[string]interface{}, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return data, nil
}

// coerceString flattens whatever the model returned for a string field.
// Models sometimes return lists or objects where a string was asked for.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []interface{}:
		var parts []string
		for _, item := range v {
			if s := coerceString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			if s := coerceString(v[k]); s != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", k, s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// coerceStringList handles the parties field, which models return as a list,
// a comma-joined string, or an object
func coerceStringList(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []interface{}:
		var out []string
		for _, item := range v {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		if s := coerceString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

// coercePaymentTerms handles the payment_terms field, which models return as
// an object, a bare string, or a list of strings
func coercePaymentTerms(value interface{}) models.PaymentTerms {
	switch v := value.(type) {
	case map[string]interface{}:
		return models.PaymentTerms{
			Description: coerceString(v["description"]),
			DueDate:     coerceString(v["due_date"]),
		}
	default:
		return models.PaymentTerms{Description: coerceString(value)}
	}
}

// fillRecord applies the parsed mapping field by field: present and non-empty
// marks filled, anything else leaves the unknown sentinel and unfilled
func fillRecord(record *models.ContractRecord, data map[string]interface{}) {
	if parties := coerceStringList(data["parties"]); len(parties) > 0 {
		record.Parties = parties
		record.FieldStatus[models.FieldParties] = models.FieldFilled
	}
	if v := coerceString(data["effective_date"]); v != "" {
		record.EffectiveDate = v
		record.FieldStatus[models.FieldEffectiveDate] = models.FieldFilled
	}
	if v := coerceString(data["termination_clause"]); v != "" {
		record.TerminationClause = v
		record.FieldStatus[models.FieldTermination] = models.FieldFilled
	}
	if _, ok := data["payment_terms"]; ok {
		pt := coercePaymentTerms(data["payment_terms"])
		if pt.Description != "" || pt.DueDate != "" {
			record.PaymentTerms = pt
			record.FieldStatus[models.FieldPaymentTerms] = models.FieldFilled
		}
	}
	if v := coerceString(data["governing_law"]); v != "" {
		record.GoverningLaw = v
		record.FieldStatus[models.FieldGoverningLaw] = models.FieldFilled
	}
	if v := coerceString(data["confidentiality_clause"]); v != "" {
		record.ConfidentialityClause = v
		record.FieldStatus[models.FieldConfidentiality] = models.FieldFilled
	}
	record.Notes = coerceString(data["notes"])
}

// computeRiskScore derives a deterministic 0-100 risk score from the record's
// fill status: 20 base, +10 per unfilled schema field, and +10 extra each for
// a missing termination clause or governing law. All fields filled scores 20;
// nothing filled scores 100.
func computeRiskScore(record *models.ContractRecord) int {
	score := 20 + 10*record.UnfilledCount()
	if record.FieldStatus[models.FieldTermination] != models.FieldFilled {
		score += 10
	}
	if record.FieldStatus[models.FieldGoverningLaw] != models.FieldFilled {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
