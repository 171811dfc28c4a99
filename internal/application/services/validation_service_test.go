package services

import (
	"reflect"
	"testing"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
)

func completeReferral() *entities.StructuredReferral {
	return &entities.StructuredReferral{
		ReferralID:     "REF-2024-001",
		DateOfReferral: "2024-03-14",
		ReferringProvider: entities.Provider{
			Name:       "Dr. Amina Yusuf",
			ProviderID: "PR-100",
			Specialty:  "Family Medicine",
			Contact:    &entities.Contact{Email: "amina.yusuf@clinic.example", Phone: "+2348012345678"},
		},
		ReceivingProvider: entities.Provider{
			Name:      "Dr. Tunde Okafor",
			Specialty: "Cardiology",
			Contact:   &entities.Contact{Phone: "+2348098765432"},
		},
		Patient: entities.Patient{
			Name:        "Chidi Eze",
			DateOfBirth: "1985-07-22",
			Contact:     &entities.Contact{Phone: "+2347011122233"},
		},
		ReasonForReferral: "Recurrent chest pain on exertion",
		Diagnosis:         "Suspected angina",
		RequestedAction:   "Cardiology consultation and stress test",
	}
}

// --- Nil and complete inputs ---

func TestValidate_NilReferral(t *testing.T) {
	svc := NewValidationService()
	result := svc.Validate(nil)
	if result.Complete {
		t.Error("expected incomplete result for nil referral")
	}
	want := []string{MissingAllSentinel}
	if !reflect.DeepEqual(result.MissingFields, want) {
		t.Errorf("expected %v, got %v", want, result.MissingFields)
	}
}

func TestValidate_CompleteReferral(t *testing.T) {
	svc := NewValidationService()
	result := svc.Validate(completeReferral())
	if !result.Complete {
		t.Errorf("expected complete result, missing: %v", result.MissingFields)
	}
	if len(result.MissingFields) != 0 {
		t.Errorf("expected no missing fields, got %v", result.MissingFields)
	}
}

// --- Per-path detection ---

func TestValidate_EachRequiredPath(t *testing.T) {
	cases := []struct {
		name  string
		clear func(r *entities.StructuredReferral)
		want  string
	}{
		{"referring provider name", func(r *entities.StructuredReferral) { r.ReferringProvider.Name = "" }, "referring_provider.name"},
		{"referring provider contact", func(r *entities.StructuredReferral) { r.ReferringProvider.Contact = nil }, "referring_provider.contact"},
		{"receiving provider name", func(r *entities.StructuredReferral) { r.ReceivingProvider.Name = "" }, "receiving_provider.name"},
		{"receiving provider contact", func(r *entities.StructuredReferral) { r.ReceivingProvider.Contact = nil }, "receiving_provider.contact"},
		{"patient name", func(r *entities.StructuredReferral) { r.Patient.Name = "" }, "patient.name"},
		{"patient date of birth", func(r *entities.StructuredReferral) { r.Patient.DateOfBirth = "" }, "patient.date_of_birth"},
		{"reason for referral", func(r *entities.StructuredReferral) { r.ReasonForReferral = "" }, "reason_for_referral"},
		{"requested action", func(r *entities.StructuredReferral) { r.RequestedAction = "" }, "requested_action"},
	}

	svc := NewValidationService()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := completeReferral()
			tc.clear(r)
			result := svc.Validate(r)
			if result.Complete {
				t.Fatal("expected incomplete result")
			}
			if !reflect.DeepEqual(result.MissingFields, []string{tc.want}) {
				t.Errorf("expected [%s], got %v", tc.want, result.MissingFields)
			}
		})
	}
}

func TestValidate_ReportsInContractOrder(t *testing.T) {
	r := completeReferral()
	r.RequestedAction = ""
	r.Patient.Name = ""
	r.ReferringProvider.Name = ""

	svc := NewValidationService()
	result := svc.Validate(r)
	want := []string{"referring_provider.name", "patient.name", "requested_action"}
	if !reflect.DeepEqual(result.MissingFields, want) {
		t.Errorf("expected %v, got %v", want, result.MissingFields)
	}
}

// --- Contact alternative rule ---

func TestValidate_ContactAllChannelsEmpty(t *testing.T) {
	r := completeReferral()
	r.ReferringProvider.Contact = &entities.Contact{}

	svc := NewValidationService()
	result := svc.Validate(r)
	want := []string{"referring_provider.contact (phone, email, or address)"}
	if !reflect.DeepEqual(result.MissingFields, want) {
		t.Errorf("expected %v, got %v", want, result.MissingFields)
	}
}

func TestValidate_ContactAnyChannelSatisfies(t *testing.T) {
	channels := []struct {
		name    string
		contact *entities.Contact
	}{
		{"phone", &entities.Contact{Phone: "+2348012345678"}},
		{"email", &entities.Contact{Email: "desk@clinic.example"}},
		{"address", &entities.Contact{Address: "12 Marina Road, Lagos"}},
	}

	svc := NewValidationService()
	for _, tc := range channels {
		t.Run(tc.name, func(t *testing.T) {
			r := completeReferral()
			r.ReceivingProvider.Contact = tc.contact
			result := svc.Validate(r)
			if !result.Complete {
				t.Errorf("expected complete result, missing: %v", result.MissingFields)
			}
		})
	}
}

func TestValidate_ContactNilVersusEmptyAnnotation(t *testing.T) {
	svc := NewValidationService()

	r := completeReferral()
	r.ReceivingProvider.Contact = nil
	result := svc.Validate(r)
	if !reflect.DeepEqual(result.MissingFields, []string{"receiving_provider.contact"}) {
		t.Errorf("nil contact should report the bare path, got %v", result.MissingFields)
	}

	r = completeReferral()
	r.ReceivingProvider.Contact = &entities.Contact{}
	result = svc.Validate(r)
	if !reflect.DeepEqual(result.MissingFields, []string{"receiving_provider.contact (phone, email, or address)"}) {
		t.Errorf("empty contact should report the annotated path, got %v", result.MissingFields)
	}
}

// --- Emptiness semantics ---

func TestValidate_WhitespaceValuePasses(t *testing.T) {
	r := completeReferral()
	r.RequestedAction = "  "

	svc := NewValidationService()
	result := svc.Validate(r)
	if !result.Complete {
		t.Errorf("whitespace-only value should pass, missing: %v", result.MissingFields)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	r := completeReferral()
	r.Patient.DateOfBirth = ""
	r.ReferringProvider.Contact = &entities.Contact{}

	svc := NewValidationService()
	first := svc.Validate(r)
	second := svc.Validate(r)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation diverged: %v vs %v", first, second)
	}
}
