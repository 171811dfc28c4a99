package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/repositories"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/observability"
)

// extractionFailedInfo is the additional_info written for extraction
// failures; consumers expect this exact string, not a structured payload.
const extractionFailedInfo = "LLM extraction failed"

// PipelineService executes the full processing pipeline for one dequeued
// job: extract, validate, dispatch, persist.
type PipelineService struct {
	extraction *ExtractionService
	validation *ValidationService
	dispatch   *DispatchService
	store      repositories.StatusStore
	metrics    *observability.Metrics
}

// NewPipelineService creates a new pipeline service. metrics may be nil.
func NewPipelineService(
	extraction *ExtractionService,
	validation *ValidationService,
	dispatch *DispatchService,
	store repositories.StatusStore,
	metrics *observability.Metrics,
) *PipelineService {
	return &PipelineService{
		extraction: extraction,
		validation: validation,
		dispatch:   dispatch,
		store:      store,
		metrics:    metrics,
	}
}

// ProcessJob runs one job to its terminal status and persists the record
// under the job's document_id. It never returns an error: every failure mode
// is converted into a terminal record so the worker loop can move on. A
// failed persist is logged and the record still returned; the document's
// status simply stays at ocr_complete until its key expires.
func (s *PipelineService) ProcessJob(ctx context.Context, job *entities.Job) *entities.StatusRecord {
	start := time.Now()
	logger := log.With().Str("document_id", job.DocumentID).Logger()
	logger.Info().Str("filename", job.Filename).Msg("Processing document")

	record := s.run(ctx, job)

	if err := s.store.Write(ctx, job.DocumentID, record); err != nil {
		logger.Error().Err(err).Str("status", string(record.Status)).Msg("Failed to persist terminal status")
	}

	observability.RecordJobProcessed(ctx, s.metrics, string(record.Status), time.Since(start))
	logger.Info().Str("status", string(record.Status)).Dur("duration", time.Since(start)).Msg("Processing complete")
	return record
}

func (s *PipelineService) run(ctx context.Context, job *entities.Job) *entities.StatusRecord {
	extractStart := time.Now()
	referral, err := s.extraction.Extract(ctx, job.RawText)
	observability.RecordStageDuration(ctx, s.metrics, "extract", time.Since(extractStart))
	if err != nil {
		log.Error().Err(err).Str("document_id", job.DocumentID).Msg("Extraction failed")
		return entities.NewStatusRecord(entities.StatusExtractionFailed, extractionFailedInfo, nil)
	}

	result := s.validation.Validate(referral)

	dispatchStart := time.Now()
	record := s.dispatch.Dispatch(ctx, job.DocumentID, referral, result)
	observability.RecordStageDuration(ctx, s.metrics, "dispatch", time.Since(dispatchStart))
	return record
}
