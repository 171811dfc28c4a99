package emr

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/providers"
)

// MockConnector simulates a downstream EMR system for local development.
// It always succeeds and echoes the referral identifier back.
type MockConnector struct{}

// NewMockConnector creates a mock EMR connector.
func NewMockConnector() providers.EMRConnector {
	return &MockConnector{}
}

// Sync logs the referral headline fields and returns a synced result.
func (m *MockConnector) Sync(ctx context.Context, documentID string, referral *entities.StructuredReferral) (*entities.SyncResult, error) {
	if referral == nil {
		return nil, errors.New("referral is required")
	}

	log.Info().
		Str("document_id", documentID).
		Str("referral_id", referral.ReferralID).
		Str("patient", referral.Patient.Name).
		Str("referring_provider", referral.ReferringProvider.Name).
		Str("receiving_provider", referral.ReceivingProvider.Name).
		Msg("mock EMR sync complete")

	return &entities.SyncResult{
		Status:     "synced",
		Timestamp:  time.Now().UTC(),
		ReferralID: referral.ReferralID,
	}, nil
}
