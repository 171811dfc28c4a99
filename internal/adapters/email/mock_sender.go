package email

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/providers"
)

// MockSender simulates outbound email for local development. The draft is
// logged in full so the generated text can be inspected without a mailbox.
type MockSender struct{}

// NewMockSender creates a mock email sender.
func NewMockSender() providers.EmailSender {
	return &MockSender{}
}

// Send logs the draft and returns a sent result for the resolved contact.
func (m *MockSender) Send(ctx context.Context, draft *entities.EmailDraft, contactInfo string) (*entities.EmailResult, error) {
	if draft == nil {
		return nil, errors.New("email draft is required")
	}

	subject := draft.Subject
	if subject == "" {
		subject = "Missing Referral Information"
	}

	log.Info().
		Str("to", contactInfo).
		Str("subject", subject).
		Str("body", draft.Body).
		Msg("mock email send complete")

	return &entities.EmailResult{
		Status:    "sent",
		Timestamp: time.Now().UTC(),
		Recipient: contactInfo,
	}, nil
}
