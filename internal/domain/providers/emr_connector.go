package providers

import (
	"context"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
)

// EMRConnector defines the interface for pushing complete referrals into an
// electronic medical record system
type EMRConnector interface {
	// Sync writes the full structured referral and returns the sync result
	Sync(ctx context.Context, documentID string, referral *entities.StructuredReferral) (*entities.SyncResult, error)
}
