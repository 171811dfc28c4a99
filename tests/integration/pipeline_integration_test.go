//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkhealth/referral-intake/backend/internal/adapters/email"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/emr"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/ocr"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/queue"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/status"
	"github.com/arkhealth/referral-intake/backend/internal/application/services"
	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/providers"
)

// stubChatModel replaces the LLM so the pipeline can run against live Redis
// without network access to a model provider.
type stubChatModel struct {
	response string
}

func (s *stubChatModel) Complete(ctx context.Context, req providers.ChatRequest) (string, error) {
	return s.response, nil
}

const completeReferralJSON = `{
	"referral_id": "REF-1001",
	"date_of_referral": "2026-08-02",
	"referring_provider": {"name": "Dr. Amina Yusuf", "contact": {"email": "a.yusuf@lakesidefp.example.com"}},
	"receiving_provider": {"name": "Dr. Tunde Okafor", "contact": {"phone": "+234-802-555-0199"}},
	"patient": {"name": "Chidi Eze", "date_of_birth": "1985-03-14"},
	"reason_for_referral": "Recurrent chest pain on exertion",
	"requested_action": "Cardiology consultation and exercise stress test"
}`

// Full lifecycle over real Redis: upload feeds the queue, a supervised agent
// drains it, and the terminal status lands in the store.
func TestPipelineEndToEndWithRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := newTestRedisClient(t)
	key := testQueueKey(t, client)
	jobQueue := queue.NewRedisJobQueue(client, key, 1)
	store := status.NewRedisStatusStore(client, 60)

	chat := &stubChatModel{response: completeReferralJSON}
	pipeline := services.NewPipelineService(
		services.NewExtractionService(chat),
		services.NewValidationService(),
		services.NewDispatchService(chat, emr.NewMockConnector(), email.NewMockSender()),
		store,
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	supervisor := services.NewAgentSupervisor(jobQueue, pipeline, nil, 2, 100*time.Millisecond)
	supervisor.Start(ctx)
	defer supervisor.Stop()

	intake := services.NewIntakeService(ocr.NewMockRecognizer(), jobQueue, store)
	job, err := intake.ProcessUpload(context.Background(), "referral.png", []byte("Referral letter for Chidi Eze"))
	require.NoError(t, err)
	cleanupStatusKey(t, client, job.DocumentID)

	require.Eventually(t, func() bool {
		record, err := store.Get(context.Background(), job.DocumentID)
		return err == nil && record.Status == entities.StatusEMRSynced
	}, 10*time.Second, 100*time.Millisecond, "document should reach emr_synced")

	record, err := store.Get(context.Background(), job.DocumentID)
	require.NoError(t, err)
	require.NotNil(t, record.StructuredData)
	assert.Equal(t, "Chidi Eze", record.StructuredData.Patient.Name)
	assert.Equal(t, "Dr. Amina Yusuf", record.StructuredData.ReferringProvider.Name)

	info, ok := record.AdditionalInfo.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "synced", info["status"])
	assert.Equal(t, "REF-1001", info["referral_id"])

	// The queue drained
	length, err := jobQueue.Length(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), length)
}
