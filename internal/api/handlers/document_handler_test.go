package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkhealth/referral-intake/backend/internal/api/handlers"
	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/repositories"
	apperrors "github.com/arkhealth/referral-intake/backend/pkg/errors"
)

// Stubs

type stubIntake struct {
	job         *entities.Job
	err         error
	gotFilename string
	gotData     []byte
}

func (s *stubIntake) ProcessUpload(ctx context.Context, filename string, data []byte) (*entities.Job, error) {
	s.gotFilename = filename
	s.gotData = data
	if s.err != nil {
		return nil, s.err
	}
	return s.job, nil
}

type fakeQueue struct {
	jobs      []*entities.Job
	lengthErr error
}

func (q *fakeQueue) Enqueue(ctx context.Context, job *entities.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Dequeue(ctx context.Context) (*entities.Job, error) {
	if len(q.jobs) == 0 {
		return nil, repositories.ErrQueueEmpty
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, nil
}

func (q *fakeQueue) Length(ctx context.Context) (int64, error) {
	if q.lengthErr != nil {
		return 0, q.lengthErr
	}
	return int64(len(q.jobs)), nil
}

func (q *fakeQueue) Peek(ctx context.Context, limit int64) ([]*entities.Job, error) {
	return q.jobs, nil
}

type fakeStore struct {
	records map[string]*entities.StatusRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*entities.StatusRecord)}
}

func (s *fakeStore) Write(ctx context.Context, documentID string, record *entities.StatusRecord) error {
	s.records[documentID] = record
	return nil
}

func (s *fakeStore) Get(ctx context.Context, documentID string) (*entities.StatusRecord, error) {
	record, ok := s.records[documentID]
	if !ok {
		return nil, repositories.ErrStatusNotFound
	}
	return record, nil
}

func (s *fakeStore) List(ctx context.Context) (map[string]*entities.StatusRecord, error) {
	return s.records, nil
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// Tests

func TestUploadDocument_Success(t *testing.T) {
	longText := strings.Repeat("referral text ", 20) // > 200 chars
	intake := &stubIntake{job: &entities.Job{
		DocumentID: "doc-1",
		Filename:   "referral.png",
		RawText:    longText,
		TextLength: len(longText),
	}}
	handler := handlers.NewDocumentHandler(intake, &fakeQueue{}, newFakeStore(), 0)

	body, contentType := multipartBody(t, "file", "referral.png", []byte("scanned bytes"))
	req := httptest.NewRequest("POST", "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.UploadDocument(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "referral.png", intake.gotFilename)
	assert.Equal(t, []byte("scanned bytes"), intake.gotData)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "doc-1", response["document_id"])
	assert.Equal(t, "uploaded_and_queued", response["status"])
	assert.Equal(t, longText[:200]+"...", response["extracted_text_preview"])
	assert.Equal(t, float64(len(longText)), response["text_length"])
}

func TestUploadDocument_ShortTextNotTruncated(t *testing.T) {
	intake := &stubIntake{job: &entities.Job{DocumentID: "doc-1", RawText: "short", TextLength: 5}}
	handler := handlers.NewDocumentHandler(intake, &fakeQueue{}, newFakeStore(), 0)

	body, contentType := multipartBody(t, "file", "referral.png", []byte("x"))
	req := httptest.NewRequest("POST", "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.UploadDocument(w, req)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "short", response["extracted_text_preview"])
}

func TestUploadDocument_MissingFilePart(t *testing.T) {
	handler := handlers.NewDocumentHandler(&stubIntake{}, &fakeQueue{}, newFakeStore(), 0)

	req := httptest.NewRequest("POST", "/api/documents", strings.NewReader("not multipart"))
	w := httptest.NewRecorder()

	handler.UploadDocument(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadDocument_UnsupportedFormat(t *testing.T) {
	intake := &stubIntake{err: apperrors.NewValidationError("Unsupported file format. Supported: .png, .jpg, .jpeg, .pdf, .tiff, .bmp")}
	handler := handlers.NewDocumentHandler(intake, &fakeQueue{}, newFakeStore(), 0)

	body, contentType := multipartBody(t, "file", "referral.docx", []byte("x"))
	req := httptest.NewRequest("POST", "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.UploadDocument(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Contains(t, response["error"], "Unsupported file format")
}

func TestUploadDocument_RecognizerFailure(t *testing.T) {
	intake := &stubIntake{err: apperrors.NewInternalError("OCR processing failed: payload is not recognizable text", nil)}
	handler := handlers.NewDocumentHandler(intake, &fakeQueue{}, newFakeStore(), 0)

	body, contentType := multipartBody(t, "file", "referral.png", []byte{0xff, 0xfe})
	req := httptest.NewRequest("POST", "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.UploadDocument(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Contains(t, response["error"], "OCR processing failed")
}

func TestGetDocumentStatus_Found(t *testing.T) {
	store := newFakeStore()
	record := entities.NewStatusRecord(entities.StatusEMRSynced, &entities.SyncResult{Status: "synced"}, &entities.StructuredReferral{ReferralID: "REF-1"})
	require.NoError(t, store.Write(context.Background(), "doc-1", record))
	handler := handlers.NewDocumentHandler(&stubIntake{}, &fakeQueue{}, store, 0)

	req := httptest.NewRequest("GET", "/api/documents/doc-1/status", nil)
	req.SetPathValue("id", "doc-1")
	w := httptest.NewRecorder()

	handler.GetDocumentStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "doc-1", response["document_id"])
	assert.Equal(t, "emr_synced", response["status"])
	assert.NotNil(t, response["structured_data"])
}

func TestGetDocumentStatus_UnknownDocument(t *testing.T) {
	handler := handlers.NewDocumentHandler(&stubIntake{}, &fakeQueue{}, newFakeStore(), 0)

	req := httptest.NewRequest("GET", "/api/documents/missing/status", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.GetDocumentStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "missing", response["document_id"])
	assert.Equal(t, "unknown", response["status"])
	_, hasTimestamp := response["timestamp"]
	assert.False(t, hasTimestamp, "unknown response should not fabricate record fields")
}

func TestGetQueueStatus(t *testing.T) {
	queue := &fakeQueue{}
	handler := handlers.NewDocumentHandler(&stubIntake{}, queue, newFakeStore(), 0)

	req := httptest.NewRequest("GET", "/api/queue/status", nil)
	w := httptest.NewRecorder()
	handler.GetQueueStatus(w, req)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(0), response["queue_length"])
	assert.Equal(t, "empty", response["status"])

	require.NoError(t, queue.Enqueue(context.Background(), entities.NewJob("a.png", 1, "x")))
	w = httptest.NewRecorder()
	handler.GetQueueStatus(w, httptest.NewRequest("GET", "/api/queue/status", nil))

	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(1), response["queue_length"])
	assert.Equal(t, "active", response["status"])
}

func TestListQueuedDocuments(t *testing.T) {
	queue := &fakeQueue{}
	store := newFakeStore()
	tracked := entities.NewJob("tracked.png", 10, "text one")
	untracked := entities.NewJob("untracked.png", 10, "text two")
	require.NoError(t, queue.Enqueue(context.Background(), tracked))
	require.NoError(t, queue.Enqueue(context.Background(), untracked))
	require.NoError(t, store.Write(context.Background(), tracked.DocumentID, entities.NewStatusRecord(entities.StatusOCRComplete, nil, nil)))

	handler := handlers.NewDocumentHandler(&stubIntake{}, queue, store, 0)
	w := httptest.NewRecorder()
	handler.ListQueuedDocuments(w, httptest.NewRequest("GET", "/api/documents", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Documents []map[string]interface{} `json:"documents"`
		Count     int                      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)

	byID := map[string]map[string]interface{}{}
	for _, doc := range response.Documents {
		byID[doc["document_id"].(string)] = doc
	}
	assert.Equal(t, "ocr_complete", byID[tracked.DocumentID]["current_status"])
	assert.Nil(t, byID[untracked.DocumentID]["current_status"])
}

func TestListDocumentStatuses(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.Write(context.Background(), "doc-b", entities.NewStatusRecord(entities.StatusExtractionFailed, "LLM extraction failed", nil)))
	require.NoError(t, store.Write(context.Background(), "doc-a", entities.NewStatusRecord(entities.StatusEMRSynced, nil, nil)))

	handler := handlers.NewDocumentHandler(&stubIntake{}, &fakeQueue{}, store, 0)
	w := httptest.NewRecorder()
	handler.ListDocumentStatuses(w, httptest.NewRequest("GET", "/api/documents/statuses", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Documents []map[string]interface{} `json:"documents"`
		Count     int                      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Equal(t, 2, response.Count)
	assert.Equal(t, "doc-a", response.Documents[0]["document_id"])
	assert.Equal(t, "emr_synced", response.Documents[0]["status"])
	assert.Equal(t, "doc-b", response.Documents[1]["document_id"])
	assert.Equal(t, "LLM extraction failed", response.Documents[1]["additional_info"])
}
