package repositories

import (
	"context"
	"errors"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
)

// ErrQueueEmpty reports that no job became available within the dequeue
// timeout. Workers treat it as an idle poll, not a failure.
var ErrQueueEmpty = errors.New("job queue is empty")

// JobQueue defines the interface for the document processing queue.
// Dequeue must be atomic: no two workers may receive the same job.
type JobQueue interface {
	// Enqueue places a job at the back of the queue
	Enqueue(ctx context.Context, job *entities.Job) error

	// Dequeue blocks up to the configured timeout for the next job and
	// returns ErrQueueEmpty when none arrives
	Dequeue(ctx context.Context) (*entities.Job, error)

	// Length returns the number of queued jobs
	Length(ctx context.Context) (int64, error)

	// Peek returns up to limit queued jobs without consuming them
	Peek(ctx context.Context, limit int64) ([]*entities.Job, error)
}
