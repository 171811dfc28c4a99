package providers

import (
	"context"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
)

// EmailSender defines the interface for delivering drafted emails
type EmailSender interface {
	// Send delivers the draft to the resolved contact and returns the
	// send result
	Send(ctx context.Context, draft *entities.EmailDraft, contactInfo string) (*entities.EmailResult, error)
}
