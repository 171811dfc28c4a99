package entities

import (
	"time"
)

// DocumentStatus represents a document's position in the processing
// state machine
type DocumentStatus string

const (
	// StatusOCRComplete is the initial status written at upload time
	StatusOCRComplete DocumentStatus = "ocr_complete"

	// StatusExtractionFailed is terminal: the LLM returned no usable JSON
	StatusExtractionFailed DocumentStatus = "extraction_failed"

	// StatusEMRSynced is terminal: a complete referral was synced to the EMR
	StatusEMRSynced DocumentStatus = "emr_synced"

	// StatusEMRSyncFailed is terminal: the EMR connector rejected the sync
	StatusEMRSyncFailed DocumentStatus = "emr_sync_failed"

	// StatusMissingFieldsEmailSent is terminal: a request for the missing
	// information went out to the resolved contact
	StatusMissingFieldsEmailSent DocumentStatus = "missing_fields_email_sent"

	// StatusEmailSendFailed is terminal: the draft existed but sending failed
	StatusEmailSendFailed DocumentStatus = "email_send_failed"

	// StatusEmailDraftFailed is terminal: the LLM produced no usable draft
	StatusEmailDraftFailed DocumentStatus = "email_draft_failed"

	// StatusUnknown is never persisted; it is reported for expired or
	// never-seen documents
	StatusUnknown DocumentStatus = "unknown"
)

// StatusRecord is the persisted processing state for one document, keyed
// externally by document_id. structured_data is either null or a complete
// StructuredReferral, never a partial one.
type StatusRecord struct {
	Status         DocumentStatus      `json:"status"`
	Timestamp      time.Time           `json:"timestamp"`
	AdditionalInfo any                 `json:"additional_info"`
	StructuredData *StructuredReferral `json:"structured_data"`
}

// NewStatusRecord stamps a record with the current time
func NewStatusRecord(status DocumentStatus, info any, data *StructuredReferral) *StatusRecord {
	return &StatusRecord{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		AdditionalInfo: info,
		StructuredData: data,
	}
}

// UploadInfo is the additional_info payload of the initial ocr_complete record
type UploadInfo struct {
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	TextLength int    `json:"text_length"`
}

// SyncResult is what the EMR connector returns for a successful sync
type SyncResult struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	ReferralID string    `json:"referral_id"`
}

// EmailResult is what the email sender returns for a successful send
type EmailResult struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Recipient string    `json:"recipient"`
}

// EmailOutcomeInfo is the additional_info payload of a
// missing_fields_email_sent record; email_send_failed reuses it with a nil
// EmailResult
type EmailOutcomeInfo struct {
	MissingFields []string     `json:"missing_fields"`
	EmailResult   *EmailResult `json:"email_result"`
	ContactInfo   string       `json:"contact_info"`
}

// MissingFieldsInfo is the additional_info payload of an email_draft_failed
// record
type MissingFieldsInfo struct {
	MissingFields []string `json:"missing_fields"`
}

// FailureInfo is the additional_info payload of an emr_sync_failed record
type FailureInfo struct {
	Error string `json:"error"`
}
