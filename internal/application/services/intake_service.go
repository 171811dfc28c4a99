package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/providers"
	"github.com/arkhealth/referral-intake/backend/internal/domain/repositories"
	apperrors "github.com/arkhealth/referral-intake/backend/pkg/errors"
)

// IntakeService runs the upload boundary: recognize the document's text,
// build a Job, enqueue it, and write the initial status record.
type IntakeService struct {
	recognizer providers.TextRecognizer
	queue      repositories.JobQueue
	store      repositories.StatusStore
}

// NewIntakeService creates a new intake service.
func NewIntakeService(recognizer providers.TextRecognizer, queue repositories.JobQueue, store repositories.StatusStore) *IntakeService {
	return &IntakeService{recognizer: recognizer, queue: queue, store: store}
}

// ProcessUpload accepts one uploaded document. Unsupported formats and
// recognizer rejections never reach the queue. On success the job is queued
// for a worker and the document is visible in the status store as
// ocr_complete.
func (s *IntakeService) ProcessUpload(ctx context.Context, filename string, data []byte) (*entities.Job, error) {
	if !entities.FormatSupported(filename) {
		return nil, apperrors.NewValidationError("Unsupported file format. Supported: " + strings.Join(entities.SupportedFormats, ", "))
	}

	text, err := s.recognizer.Recognize(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	job := entities.NewJob(filename, int64(len(data)), text)
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return nil, apperrors.NewInternalError("failed to queue document", err)
	}

	record := entities.NewStatusRecord(entities.StatusOCRComplete, &entities.UploadInfo{
		Filename:   job.Filename,
		FileSize:   job.FileSize,
		TextLength: job.TextLength,
	}, nil)
	if err := s.store.Write(ctx, job.DocumentID, record); err != nil {
		// The job is already queued; the worker's terminal write will
		// re-create the status key.
		log.Error().Err(err).Str("document_id", job.DocumentID).Msg("Failed to write initial status record")
		return nil, apperrors.NewInternalError("failed to record document status", err)
	}

	log.Info().Str("document_id", job.DocumentID).Str("filename", job.Filename).Msg("Document queued for agent processing")
	return job, nil
}
