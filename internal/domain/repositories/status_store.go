package repositories

import (
	"context"
	"errors"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
)

// ErrStatusNotFound reports that no status record exists for a document,
// either because it was never seen or because its record expired. Callers
// surface it as status "unknown", never as an internal error.
var ErrStatusNotFound = errors.New("status record not found")

// StatusStore defines the interface for persisted document status records.
// Every record expires a fixed window after its last write.
type StatusStore interface {
	// Write stores the record under the document's key, resetting the expiry
	Write(ctx context.Context, documentID string, record *entities.StatusRecord) error

	// Get returns the current record or ErrStatusNotFound
	Get(ctx context.Context, documentID string) (*entities.StatusRecord, error)

	// List returns all live records keyed by document_id
	List(ctx context.Context) (map[string]*entities.StatusRecord, error)
}
