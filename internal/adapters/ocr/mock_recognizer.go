package ocr

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/providers"
	apperrors "github.com/arkhealth/referral-intake/backend/pkg/errors"
)

// MockRecognizer is a deterministic text recognizer for local development:
// plain-text payloads pass through unchanged, which lets fixture documents
// travel the full pipeline without a real OCR engine.
type MockRecognizer struct{}

// NewMockRecognizer creates a mock text recognizer.
func NewMockRecognizer() providers.TextRecognizer {
	return &MockRecognizer{}
}

// Recognize returns the payload as text. PDFs and non-text payloads are
// rejected; both errors surface as a rejected upload.
func (m *MockRecognizer) Recognize(ctx context.Context, filename string, data []byte) (string, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		return "", apperrors.NewValidationError("PDF support coming soon")
	}

	if !utf8.Valid(data) {
		return "", apperrors.NewInternalError("OCR processing failed: payload is not recognizable text", errors.New("invalid encoding"))
	}

	text := strings.TrimSpace(string(data))
	log.Debug().Str("filename", filename).Int("text_length", len(text)).Msg("recognized document text")
	return text, nil
}
