package entities

// Contact holds the reachable channels for a provider or patient
type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Insurance holds a patient's coverage details
type Insurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
}

// Provider represents the referring or receiving clinician
type Provider struct {
	Name       string   `json:"name"`
	ProviderID string   `json:"provider_id"`
	Specialty  string   `json:"specialty"`
	Contact    *Contact `json:"contact"`
}

// Patient represents the subject of the referral
type Patient struct {
	Name        string     `json:"name"`
	DateOfBirth string     `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	PatientID   string     `json:"patient_id"`
	Contact     *Contact   `json:"contact"`
	Insurance   *Insurance `json:"insurance"`
}

// Medication is a single entry in the patient's medication list
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// Investigation is a recent test or imaging result quoted in the referral
type Investigation struct {
	TestName string `json:"test_name"`
	Date     string `json:"date"`
	Result   string `json:"result"`
}

// Attachment references supporting material sent with the referral
type Attachment struct {
	Type    string `json:"type"`
	FileURL string `json:"file_url"`
}

// StructuredReferral is the structured representation extracted from a
// referral document's raw text. It is produced once per job and never
// mutated afterwards.
type StructuredReferral struct {
	ReferralID           string          `json:"referral_id"`
	DateOfReferral       string          `json:"date_of_referral"`
	ReferringProvider    Provider        `json:"referring_provider"`
	ReceivingProvider    Provider        `json:"receiving_provider"`
	Patient              Patient         `json:"patient"`
	ReasonForReferral    string          `json:"reason_for_referral"`
	Diagnosis            string          `json:"diagnosis"`
	Medications          []Medication    `json:"medications"`
	Allergies            []string        `json:"allergies"`
	RecentInvestigations []Investigation `json:"recent_investigations"`
	RequestedAction      string          `json:"requested_action"`
	Attachments          []Attachment    `json:"attachments"`
	Notes                string          `json:"notes"`
	Summary              string          `json:"summary"`
}
