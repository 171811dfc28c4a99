package evaluation

import (
	"encoding/json"
	"testing"

	"github.com/arkhealth/referral-intake/backend/internal/application/services"
)

const completeReferral = `{
	"referral_id": "REF-1001",
	"referring_provider": {"name": "Dr. Amina Yusuf", "contact": {"email": "a.yusuf@example.com"}},
	"receiving_provider": {"name": "Dr. Tunde Okafor", "contact": {"phone": "+234-802-555-0199"}},
	"patient": {"name": "Chidi Eze", "date_of_birth": "1985-03-14"},
	"reason_for_referral": "Recurrent chest pain on exertion",
	"requested_action": "Cardiology consultation"
}`

const missingDOBReferral = `{
	"referring_provider": {"name": "Dr. Amina Yusuf", "contact": {"email": "a.yusuf@example.com"}},
	"receiving_provider": {"name": "Dr. Tunde Okafor", "contact": {"phone": "+234-802-555-0199"}},
	"patient": {"name": "Funke Adeyemi"},
	"reason_for_referral": "Persistent rash",
	"requested_action": "Dermatology assessment"
}`

func TestRunner_PerfectValidatorScoresOne(t *testing.T) {
	docs := []GoldenDocument{
		{
			ID:         "complete",
			Category:   CategoryComplete,
			Referral:   json.RawMessage(completeReferral),
			Difficulty: "easy",
		},
		{
			ID:              "missing-dob",
			Category:        CategoryMissingField,
			Referral:        json.RawMessage(missingDOBReferral),
			ExpectedMissing: []string{"patient.date_of_birth"},
			Difficulty:      "easy",
		},
		{
			ID:              "unparseable",
			Category:        CategoryUnparseable,
			Referral:        json.RawMessage(`null`),
			ExpectedMissing: []string{"All fields - invalid JSON response"},
			Difficulty:      "medium",
		},
	}

	runner := NewRunner(services.NewValidationService())
	summary, err := runner.Run(docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalDocuments != 3 {
		t.Errorf("expected 3 documents, got %d", summary.TotalDocuments)
	}
	if summary.ExactMatches != 3 {
		t.Errorf("expected 3 exact matches, got %d", summary.ExactMatches)
	}
	if !almostEqual(summary.AvgPrecision, 1.0) {
		t.Errorf("expected avg precision 1.0, got %f", summary.AvgPrecision)
	}
	if !almostEqual(summary.AvgRecall, 1.0) {
		t.Errorf("expected avg recall 1.0, got %f", summary.AvgRecall)
	}
	if len(summary.ByCategory) != 3 {
		t.Errorf("expected 3 categories, got %d", len(summary.ByCategory))
	}
	if cs := summary.ByCategory[CategoryMissingField]; cs == nil || cs.Count != 1 {
		t.Errorf("expected 1 missing_field document, got %+v", cs)
	}
}

func TestRunner_WrongExpectationDragsAverages(t *testing.T) {
	docs := []GoldenDocument{
		{
			ID:         "complete",
			Category:   CategoryComplete,
			Referral:   json.RawMessage(completeReferral),
			Difficulty: "easy",
		},
		{
			// The fixture is labeled wrong on purpose: the validator will
			// report patient.date_of_birth, not reason_for_referral.
			ID:              "mislabeled",
			Category:        CategoryMissingField,
			Referral:        json.RawMessage(missingDOBReferral),
			ExpectedMissing: []string{"reason_for_referral"},
			Difficulty:      "hard",
		},
	}

	runner := NewRunner(services.NewValidationService())
	summary, err := runner.Run(docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.ExactMatches != 1 {
		t.Errorf("expected 1 exact match, got %d", summary.ExactMatches)
	}
	if !almostEqual(summary.AvgPrecision, 0.5) {
		t.Errorf("expected avg precision 0.5, got %f", summary.AvgPrecision)
	}
	if !almostEqual(summary.AvgRecall, 0.5) {
		t.Errorf("expected avg recall 0.5, got %f", summary.AvgRecall)
	}
}

func TestRunner_MalformedReferralSurfacesError(t *testing.T) {
	docs := []GoldenDocument{
		{
			ID:         "broken",
			Category:   CategoryComplete,
			Referral:   json.RawMessage(`{broken`),
			Difficulty: "easy",
		},
	}

	runner := NewRunner(services.NewValidationService())
	_, err := runner.Run(docs)
	if err == nil {
		t.Error("expected error for malformed referral JSON")
	}
}
