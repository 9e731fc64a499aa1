package models

// ClauseType labels what kind of contractual content a chunk contains
type ClauseType string

const (
	ClauseParties         ClauseType = "parties"
	ClauseEffectiveDate   ClauseType = "effective_date"
	ClauseTermination     ClauseType = "termination_clause"
	ClausePaymentTerms    ClauseType = "payment_terms"
	ClauseGoverningLaw    ClauseType = "governing_law"
	ClauseConfidentiality ClauseType = "confidentiality"
	ClauseLiability       ClauseType = "liability"
	ClauseOther           ClauseType = "other"
)

// AllClauseTypes is the fixed taxonomy. Labels assigned by the classifier are
// always a subset of this list.
var AllClauseTypes = []ClauseType{
	ClauseParties,
	ClauseEffectiveDate,
	ClauseTermination,
	ClausePaymentTerms,
	ClauseGoverningLaw,
	ClauseConfidentiality,
	ClauseLiability,
	ClauseOther,
}

// FillStatus indicates whether a schema field was extracted or defaulted
type FillStatus string

const (
	FieldFilled   FillStatus = "filled"
	FieldUnfilled FillStatus = "unfilled"
)

// Schema field names used for fill-status tracking
const (
	FieldParties         = "parties"
	FieldEffectiveDate   = "effective_date"
	FieldTermination     = "termination_clause"
	FieldPaymentTerms    = "payment_terms"
	FieldGoverningLaw    = "governing_law"
	FieldConfidentiality = "confidentiality_clause"
)

// SchemaFields lists every field tracked by fill status, in extraction
// priority order.
var SchemaFields = []string{
	FieldParties,
	FieldEffectiveDate,
	FieldTermination,
	FieldPaymentTerms,
	FieldGoverningLaw,
	FieldConfidentiality,
}

// PaymentTerms holds the structured payment sub-record
type PaymentTerms struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

// ContractRecord is the structured output of a contract analysis.
// Every schema field always has a value; missing extractions carry the empty
// sentinel and are marked unfilled in FieldStatus.
type ContractRecord struct {
	Document              string                `json:"document"`
	Parties               []string              `json:"parties"`
	EffectiveDate         string                `json:"effective_date"`
	TerminationClause     string                `json:"termination_clause"`
	PaymentTerms          PaymentTerms          `json:"payment_terms"`
	GoverningLaw          string                `json:"governing_law"`
	ConfidentialityClause string                `json:"confidentiality_clause"`
	RiskScore             int                   `json:"risk_score"`
	Notes                 string                `json:"notes"`
	FieldStatus           map[string]FillStatus `json:"field_status"`
}

// NewUnfilledRecord returns a record with every schema field set to the
// unknown sentinel and marked unfilled
func NewUnfilledRecord(document string) *ContractRecord {
	status := make(map[string]FillStatus, len(SchemaFields))
	for _, f := range SchemaFields {
		status[f] = FieldUnfilled
	}
	return &ContractRecord{
		Document:    document,
		Parties:     []string{},
		FieldStatus: status,
	}
}

// UnfilledCount returns how many schema fields remain unfilled
func (r *ContractRecord) UnfilledCount() int {
	count := 0
	for _, f := range SchemaFields {
		if r.FieldStatus[f] != FieldFilled {
			count++
		}
	}
	return count
}
