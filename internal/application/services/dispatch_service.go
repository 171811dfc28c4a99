package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/providers"
	apperrors "github.com/arkhealth/referral-intake/backend/pkg/errors"
	"github.com/arkhealth/referral-intake/backend/pkg/utils"
)

// NoContactAvailable is the contact target recorded when neither provider
// carries a usable channel.
const NoContactAvailable = "No contact information available"

const emailDraftSystemPrompt = "You are a professional medical administrative assistant."

// emailDraftPromptTemplate takes the referring provider name, the receiving
// provider name, and the missing information rendered as human-readable
// labels — never raw field paths.
const emailDraftPromptTemplate = `Draft a professional email requesting missing information for a medical referral.

Context:
- Referring Provider: %s
- Receiving Provider: %s
- Missing Information: %s

Please draft a concise, professional email that:
1. Explains that we received a referral but some required information is missing
2. Lists the missing information exactly as given above, in plain language, never as field paths or JSON
3. Requests the information be provided to complete the referral
4. Maintains a professional and courteous tone

Return the email in the following JSON format:
{
    "subject": "email subject line",
    "body": "email body content",
    "recipient": "email address or contact method"
}`

// DispatchService routes a validated referral to its downstream action:
// EMR sync when complete, a missing-information email when not.
type DispatchService struct {
	chat  providers.ChatModel
	emr   providers.EMRConnector
	email providers.EmailSender
}

// NewDispatchService creates a new dispatch service.
func NewDispatchService(chat providers.ChatModel, emr providers.EMRConnector, email providers.EmailSender) *DispatchService {
	return &DispatchService{chat: chat, emr: emr, email: email}
}

// Dispatch executes the downstream branch for one document and returns the
// terminal StatusRecord. It never returns an error: downstream failures
// become failure-status records so the pipeline always has something to
// persist. Every branch carries the referral as structured_data.
func (s *DispatchService) Dispatch(ctx context.Context, documentID string, referral *entities.StructuredReferral, result ValidationResult) *entities.StatusRecord {
	if result.Complete {
		return s.syncToEMR(ctx, documentID, referral)
	}
	return s.requestMissingInfo(ctx, documentID, referral, result.MissingFields)
}

func (s *DispatchService) syncToEMR(ctx context.Context, documentID string, referral *entities.StructuredReferral) *entities.StatusRecord {
	log.Info().Str("document_id", documentID).Msg("All required fields present, syncing to EMR")
	syncResult, err := s.emr.Sync(ctx, documentID, referral)
	if err != nil {
		log.Error().Err(err).Str("document_id", documentID).Msg("EMR sync failed")
		return entities.NewStatusRecord(entities.StatusEMRSyncFailed, &entities.FailureInfo{Error: err.Error()}, referral)
	}
	return entities.NewStatusRecord(entities.StatusEMRSynced, syncResult, referral)
}

func (s *DispatchService) requestMissingInfo(ctx context.Context, documentID string, referral *entities.StructuredReferral, missing []string) *entities.StatusRecord {
	log.Info().Str("document_id", documentID).Strs("missing_fields", missing).Msg("Missing fields detected, drafting request email")

	draft, err := s.draftEmail(ctx, referral, missing)
	if err != nil {
		log.Error().Err(err).Str("document_id", documentID).Msg("Email draft failed")
		return entities.NewStatusRecord(entities.StatusEmailDraftFailed, &entities.MissingFieldsInfo{MissingFields: missing}, referral)
	}

	contactInfo := ResolveContact(referral)
	emailResult, err := s.email.Send(ctx, draft, contactInfo)
	if err != nil {
		log.Error().Err(err).Str("document_id", documentID).Str("contact_info", contactInfo).Msg("Email send failed")
		return entities.NewStatusRecord(entities.StatusEmailSendFailed, &entities.EmailOutcomeInfo{MissingFields: missing, ContactInfo: contactInfo}, referral)
	}

	return entities.NewStatusRecord(entities.StatusMissingFieldsEmailSent, &entities.EmailOutcomeInfo{
		MissingFields: missing,
		EmailResult:   emailResult,
		ContactInfo:   contactInfo,
	}, referral)
}

// draftEmail asks the model for a missing-information email. The response
// must be a single JSON object with subject, body, and recipient; anything
// else is a draft failure.
func (s *DispatchService) draftEmail(ctx context.Context, referral *entities.StructuredReferral, missing []string) (*entities.EmailDraft, error) {
	prompt := fmt.Sprintf(emailDraftPromptTemplate,
		nameOrUnknown(referral.ReferringProvider.Name),
		nameOrUnknown(referral.ReceivingProvider.Name),
		strings.Join(utils.HumanFieldLabels(missing), ", "),
	)

	response, err := s.chat.Complete(ctx, providers.ChatRequest{System: emailDraftSystemPrompt, User: prompt})
	if err != nil {
		return nil, apperrors.NewExternalError("email draft model call failed", err)
	}

	var draft entities.EmailDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &draft); err != nil {
		log.Error().Str("response", snippet(response, 200)).Msg("Email draft response is not valid JSON")
		return nil, apperrors.NewExternalError("email draft response is not valid JSON", err)
	}
	return &draft, nil
}

// ResolveContact picks the best channel for the referring provider, falling
// back to the receiving provider. Priority within a provider: email, then
// phone, then address.
func ResolveContact(referral *entities.StructuredReferral) string {
	if target := bestChannel(referral.ReferringProvider.Contact); target != "" {
		return target
	}
	if target := bestChannel(referral.ReceivingProvider.Contact); target != "" {
		return target
	}
	return NoContactAvailable
}

func bestChannel(c *entities.Contact) string {
	if c == nil {
		return ""
	}
	switch {
	case c.Email != "":
		return c.Email
	case c.Phone != "":
		return c.Phone
	case c.Address != "":
		return c.Address
	}
	return ""
}

func nameOrUnknown(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
