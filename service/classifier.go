package service

import (
	"strings"

	"contractiq-backend/models"
)

// clauseLexicons maps each clause type to the phrases that signal it.
// Keywords are matched case-insensitively as substrings, so entries should be
// specific enough to avoid false positives on short fragments.
var clauseLexicons = map[models.ClauseType][]string{
	models.ClauseTermination: {
		"terminate", "termination", "cancel", "cancellation", "rescind",
		"end of agreement", "convenience", "breach", "notice period",
	},
	models.ClauseEffectiveDate: {
		"effective date", "commencement date", "start date", "dated as of",
		"made as of", "initial term", "expiration date", "renewal",
		"automatic renewal", "successive term",
	},
	models.ClauseParties: {
		"parties", "between", "among", "entered into by", "buyer", "seller",
		"provider", "customer", "licensor", "licensee", "grantor", "grantee",
		"landlord", "tenant", "contractor",
	},
	models.ClauseGoverningLaw: {
		"governing law", "jurisdiction", "laws of", "venue", "courts of",
		"construed in accordance", "dispute resolution", "arbitration",
	},
	models.ClauseConfidentiality: {
		"confidential", "confidentiality", "non-disclosure", "secrecy",
		"proprietary information", "trade secret",
	},
	models.ClausePaymentTerms: {
		"payment", "fees", "invoice", "due date", "remittance", "pricing",
		"compensation", "royalties", "minimum commitment",
	},
	models.ClauseLiability: {
		"liability", "indemnification", "damages", "limitation of liability",
		"hold harmless", "cap on liability", "liquidated damages", "warranty",
	},
}

// classifierOrder fixes the iteration order over the lexicon table so
// classification output is deterministic
var classifierOrder = []models.ClauseType{
	models.ClauseParties,
	models.ClauseEffectiveDate,
	models.ClauseTermination,
	models.ClausePaymentTerms,
	models.ClauseGoverningLaw,
	models.ClauseConfidentiality,
	models.ClauseLiability,
}

// DetectClauseTypes returns every clause type whose lexicon matches the text.
// A chunk may match zero, one, or several types; unmatched text yields an
// empty set.
func DetectClauseTypes(text string) []models.ClauseType {
	textLower := strings.ToLower(text)
	var detected []models.ClauseType
	for _, clauseType := range classifierOrder {
		for _, keyword := range clauseLexicons[clauseType] {
			if strings.Contains(textLower, keyword) {
				detected = append(detected, clauseType)
				break
			}
		}
	}
	return detected
}
