package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/repositories"
	apperrors "github.com/arkhealth/referral-intake/backend/pkg/errors"
)

// previewLength caps the extracted-text preview returned by the upload
// endpoint.
const previewLength = 200

// IntakeService defines the upload operation used by the handler.
type IntakeService interface {
	ProcessUpload(ctx context.Context, filename string, data []byte) (*entities.Job, error)
}

// DocumentHandler handles document upload and status HTTP requests.
type DocumentHandler struct {
	intake         IntakeService
	queue          repositories.JobQueue
	store          repositories.StatusStore
	maxUploadBytes int64
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(intake IntakeService, queue repositories.JobQueue, store repositories.StatusStore, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		intake:         intake,
		queue:          queue,
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadDocument handles POST /api/documents
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "multipart form with a 'file' part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	job, err := h.intake.ProcessUpload(r.Context(), header.Filename, data)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	preview := job.RawText
	if len(preview) > previewLength {
		preview = preview[:previewLength] + "..."
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":            job.DocumentID,
		"status":                 "uploaded_and_queued",
		"message":                "Document processed with OCR and queued for agent",
		"extracted_text_preview": preview,
		"text_length":            job.TextLength,
	})
}

// GetDocumentStatus handles GET /api/documents/{id}/status
func (h *DocumentHandler) GetDocumentStatus(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		respondWithError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	record, err := h.store.Get(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, repositories.ErrStatusNotFound) {
			// Expired records and never-seen IDs look identical here.
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"document_id": documentID,
				"status":      entities.StatusUnknown,
			})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to retrieve document status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":     documentID,
		"status":          record.Status,
		"timestamp":       record.Timestamp,
		"additional_info": record.AdditionalInfo,
		"structured_data": record.StructuredData,
	})
}

// GetQueueStatus handles GET /api/queue/status
func (h *DocumentHandler) GetQueueStatus(w http.ResponseWriter, r *http.Request) {
	length, err := h.queue.Length(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to retrieve queue status")
		return
	}

	status := "empty"
	if length > 0 {
		status = "active"
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queue_length": length,
		"status":       status,
	})
}

// queuedDocument is a queued job annotated with its current store status;
// current_status is null for documents whose record has expired.
type queuedDocument struct {
	*entities.Job
	CurrentStatus *entities.DocumentStatus `json:"current_status"`
}

// ListQueuedDocuments handles GET /api/documents
func (h *DocumentHandler) ListQueuedDocuments(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.queue.Peek(r.Context(), 0)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list queued documents")
		return
	}

	documents := make([]queuedDocument, 0, len(jobs))
	for _, job := range jobs {
		doc := queuedDocument{Job: job}
		record, err := h.store.Get(r.Context(), job.DocumentID)
		switch {
		case err == nil:
			doc.CurrentStatus = &record.Status
		case !errors.Is(err, repositories.ErrStatusNotFound):
			log.Warn().Err(err).Str("document_id", job.DocumentID).Msg("Failed to read status for queued document")
		}
		documents = append(documents, doc)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// documentStatus is a stored record annotated with the document_id it is
// keyed by.
type documentStatus struct {
	DocumentID string `json:"document_id"`
	*entities.StatusRecord
}

// ListDocumentStatuses handles GET /api/documents/statuses
func (h *DocumentHandler) ListDocumentStatuses(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list document statuses")
		return
	}

	documents := make([]documentStatus, 0, len(records))
	for documentID, record := range records {
		documents = append(documents, documentStatus{DocumentID: documentID, StatusRecord: record})
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].DocumentID < documents[j].DocumentID
	})

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
