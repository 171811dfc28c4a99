package evaluation

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// --- FieldPrecision tests ---

func TestFieldPrecision_AllReportedExpected(t *testing.T) {
	expected := []string{"patient.name", "patient.date_of_birth"}
	reported := []string{"patient.name", "patient.date_of_birth"}
	got := FieldPrecision(expected, reported)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestFieldPrecision_SpuriousReport(t *testing.T) {
	expected := []string{"patient.name"}
	reported := []string{"patient.name", "reason_for_referral"}
	got := FieldPrecision(expected, reported)
	// 1 of 2 reported fields was expected
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestFieldPrecision_NothingReportedNothingExpected(t *testing.T) {
	got := FieldPrecision([]string{}, []string{})
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestFieldPrecision_NothingReportedSomethingExpected(t *testing.T) {
	got := FieldPrecision([]string{"patient.name"}, []string{})
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

// --- FieldRecall tests ---

func TestFieldRecall_AllExpectedFound(t *testing.T) {
	expected := []string{"patient.name", "requested_action"}
	reported := []string{"requested_action", "patient.name"}
	got := FieldRecall(expected, reported)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestFieldRecall_SomeExpectedMissed(t *testing.T) {
	expected := []string{"patient.name", "patient.date_of_birth", "reason_for_referral", "requested_action"}
	reported := []string{"patient.name", "requested_action"}
	got := FieldRecall(expected, reported)
	// 2 of 4 expected fields reported
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestFieldRecall_NothingExpectedSomethingReported(t *testing.T) {
	got := FieldRecall([]string{}, []string{"patient.name"})
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestFieldRecall_NothingExpectedNothingReported(t *testing.T) {
	got := FieldRecall([]string{}, []string{})
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

// --- SetExactMatch tests ---

func TestSetExactMatch_SameSetDifferentOrder(t *testing.T) {
	expected := []string{"patient.name", "referring_provider.contact"}
	reported := []string{"referring_provider.contact", "patient.name"}
	if !SetExactMatch(expected, reported) {
		t.Error("expected exact match regardless of order")
	}
}

func TestSetExactMatch_DifferentLength(t *testing.T) {
	if SetExactMatch([]string{"patient.name"}, []string{}) {
		t.Error("expected mismatch for different lengths")
	}
}

func TestSetExactMatch_DifferentFields(t *testing.T) {
	if SetExactMatch([]string{"patient.name"}, []string{"requested_action"}) {
		t.Error("expected mismatch for different fields")
	}
}

func TestSetExactMatch_BothEmpty(t *testing.T) {
	if !SetExactMatch([]string{}, []string{}) {
		t.Error("expected exact match for two empty sets")
	}
}
