package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/providers"
	apperrors "github.com/arkhealth/referral-intake/backend/pkg/errors"
)

// referralSchemaKeys are the top-level keys of the extraction schema. A
// response that deserializes but carries none of them did not follow the
// schema at all and is rejected rather than treated as an empty referral.
var referralSchemaKeys = []string{
	"referral_id", "date_of_referral", "referring_provider",
	"receiving_provider", "patient", "reason_for_referral", "diagnosis",
	"medications", "allergies", "recent_investigations", "requested_action",
	"attachments", "notes", "summary",
}

// ExtractionService turns a document's raw text into a StructuredReferral
// through a single chat-model call.
type ExtractionService struct {
	chat providers.ChatModel
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(chat providers.ChatModel) *ExtractionService {
	return &ExtractionService{chat: chat}
}

// Extract sends the schema prompt plus the raw text to the model and parses
// the entire response body as one StructuredReferral. A model failure, an
// empty or null response, a non-JSON response, or valid JSON that matches no
// part of the schema all return an error; there is no retry and never a
// partially usable result.
func (s *ExtractionService) Extract(ctx context.Context, rawText string) (*entities.StructuredReferral, error) {
	response, err := s.chat.Complete(ctx, providers.ChatRequest{
		System: extractionPrompt,
		User:   rawText,
	})
	if err != nil {
		return nil, apperrors.NewExternalError("extraction model call failed", err)
	}
	return parseReferral(response)
}

func parseReferral(response string) (*entities.StructuredReferral, error) {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" || trimmed == "null" {
		return nil, apperrors.NewExternalError("model returned no referral data", nil)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		log.Error().Str("response", snippet(trimmed, 200)).Msg("Model response is not a JSON object")
		return nil, apperrors.NewExternalError("model response is not a JSON object", err)
	}
	if !hasReferralShape(probe) {
		log.Error().Str("response", snippet(trimmed, 200)).Msg("Model response does not match the referral schema")
		return nil, apperrors.NewExternalError("model response does not match the referral schema", nil)
	}

	var referral entities.StructuredReferral
	if err := json.Unmarshal([]byte(trimmed), &referral); err != nil {
		return nil, apperrors.NewExternalError("model response does not deserialize as a referral", err)
	}
	return &referral, nil
}

// hasReferralShape reports whether at least one top-level schema key is
// present. Partial referrals pass here; the validation engine decides what
// is missing.
func hasReferralShape(probe map[string]json.RawMessage) bool {
	for _, key := range referralSchemaKeys {
		if _, ok := probe[key]; ok {
			return true
		}
	}
	return false
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
