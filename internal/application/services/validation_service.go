package services

import (
	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
)

// MissingAllSentinel is the single missing-fields entry reported when there
// is no extracted referral to validate at all.
const MissingAllSentinel = "All fields - invalid JSON response"

// contactAnnotation is appended to a contact path when the contact record
// exists but carries no usable channel.
const contactAnnotation = " (phone, email, or address)"

// fieldRule binds a dotted field path to its accessor. Exactly one of value
// or contact is set; contact rules apply the any-channel-present check
// instead of the plain empty-string check.
type fieldRule struct {
	path    string
	value   func(*entities.StructuredReferral) string
	contact func(*entities.StructuredReferral) *entities.Contact
}

// requiredFields is the completeness contract for a referral. Order matters:
// missing fields are reported in this order.
var requiredFields = []fieldRule{
	{path: "referring_provider.name", value: func(r *entities.StructuredReferral) string { return r.ReferringProvider.Name }},
	{path: "referring_provider.contact", contact: func(r *entities.StructuredReferral) *entities.Contact { return r.ReferringProvider.Contact }},
	{path: "receiving_provider.name", value: func(r *entities.StructuredReferral) string { return r.ReceivingProvider.Name }},
	{path: "receiving_provider.contact", contact: func(r *entities.StructuredReferral) *entities.Contact { return r.ReceivingProvider.Contact }},
	{path: "patient.name", value: func(r *entities.StructuredReferral) string { return r.Patient.Name }},
	{path: "patient.date_of_birth", value: func(r *entities.StructuredReferral) string { return r.Patient.DateOfBirth }},
	{path: "reason_for_referral", value: func(r *entities.StructuredReferral) string { return r.ReasonForReferral }},
	{path: "requested_action", value: func(r *entities.StructuredReferral) string { return r.RequestedAction }},
}

// ValidationResult reports whether a referral carries every required field
// and which paths are missing when it does not.
type ValidationResult struct {
	Complete      bool
	MissingFields []string
}

// ValidationService checks extracted referrals against the fixed
// required-field contract. It is stateless and safe for concurrent use.
type ValidationService struct{}

// NewValidationService creates a new validation service.
func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// Validate walks the required-field list in order. A nil referral yields the
// sentinel entry alone. A plain field is missing when its value is the empty
// string; a contact field is satisfied by any one of phone, email, or
// address. The same input always produces the same result.
func (s *ValidationService) Validate(r *entities.StructuredReferral) ValidationResult {
	if r == nil {
		return ValidationResult{Complete: false, MissingFields: []string{MissingAllSentinel}}
	}

	var missing []string
	for _, rule := range requiredFields {
		if rule.contact != nil {
			c := rule.contact(r)
			switch {
			case c == nil:
				missing = append(missing, rule.path)
			case c.Phone == "" && c.Email == "" && c.Address == "":
				missing = append(missing, rule.path+contactAnnotation)
			}
			continue
		}
		if rule.value(r) == "" {
			missing = append(missing, rule.path)
		}
	}

	return ValidationResult{Complete: len(missing) == 0, MissingFields: missing}
}
