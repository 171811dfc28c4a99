package providers

import (
	"context"
)

// TextRecognizer defines the interface for turning an uploaded document
// into raw text. Failures surface as rejected uploads before any job is
// enqueued.
type TextRecognizer interface {
	// Recognize extracts the text content of an uploaded file
	Recognize(ctx context.Context, filename string, data []byte) (string, error)
}
