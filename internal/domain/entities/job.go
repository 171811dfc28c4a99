package entities

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NextStepAgentProcessing is the only next_step value the intake boundary
// writes today; workers ignore the field but it travels on the wire.
const NextStepAgentProcessing = "agent_processing"

// SupportedFormats lists the upload extensions the intake boundary accepts.
// PDF passes this check but is rejected later by the text recognizer.
var SupportedFormats = []string{".png", ".jpg", ".jpeg", ".pdf", ".tiff", ".bmp"}

// Job is the unit of work placed on the processing queue. It is immutable
// once enqueued and consumed exactly once per delivery.
type Job struct {
	DocumentID      string         `json:"document_id"`
	Filename        string         `json:"filename"`
	FileSize        int64          `json:"file_size"`
	RawText         string         `json:"raw_text"`
	TextLength      int            `json:"text_length"`
	UploadTimestamp time.Time      `json:"upload_timestamp"`
	Status          DocumentStatus `json:"status"`
	NextStep        string         `json:"next_step"`
}

// NewJob builds a queue-ready job for a recognized document
func NewJob(filename string, fileSize int64, rawText string) *Job {
	return &Job{
		DocumentID:      uuid.NewString(),
		Filename:        filename,
		FileSize:        fileSize,
		RawText:         rawText,
		TextLength:      len(rawText),
		UploadTimestamp: time.Now().UTC(),
		Status:          StatusOCRComplete,
		NextStep:        NextStepAgentProcessing,
	}
}

// FormatSupported reports whether the filename carries an accepted extension
func FormatSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range SupportedFormats {
		if ext == supported {
			return true
		}
	}
	return false
}
