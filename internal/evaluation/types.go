package evaluation

import (
	"encoding/json"
	"time"
)

// Category groups golden documents by the validation behavior they probe.
type Category string

const (
	CategoryComplete     Category = "complete"      // every required field present
	CategoryMissingField Category = "missing_field" // one or more required values absent
	CategoryNoContact    Category = "no_contact"    // provider has no reachable channel
	CategoryUnparseable  Category = "unparseable"   // extraction produced no referral
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategoryComplete, CategoryMissingField, CategoryNoContact, CategoryUnparseable}
}

// IsValid checks if the category value is one of the defined constants.
func (c Category) IsValid() bool {
	switch c {
	case CategoryComplete, CategoryMissingField, CategoryNoContact, CategoryUnparseable:
		return true
	}
	return false
}

// GoldenDocument represents a labeled referral with its expected validation
// outcome. Referral holds the structured referral as raw JSON; a literal
// null stands in for a document the model could not parse.
type GoldenDocument struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Category        Category        `json:"category"`
	Referral        json.RawMessage `json:"referral"`
	ExpectedMissing []string        `json:"expected_missing_fields"`
	Difficulty      string          `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single document.
type EvalResult struct {
	DocumentID     string
	Category       Category
	Precision      float64
	Recall         float64
	ExactMatch     bool
	ReportedFields []string
	Latency        time.Duration
}

// EvalSummary holds aggregate metrics across all golden documents.
type EvalSummary struct {
	TotalDocuments int
	AvgPrecision   float64
	AvgRecall      float64
	ExactMatches   int
	AvgLatency     time.Duration
	ByCategory     map[Category]*CategorySummary
}

// CategorySummary holds metrics grouped by document category.
type CategorySummary struct {
	Count        int
	AvgPrecision float64
	AvgRecall    float64
	ExactMatches int
}
