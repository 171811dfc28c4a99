package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/repositories"
	redisclient "github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/redis"
)

// RedisJobQueue implements the JobQueue interface on a Redis list. LPUSH
// feeds the head, BRPOP drains the tail, so delivery is FIFO and a popped
// job is gone from the list whether or not processing succeeds.
type RedisJobQueue struct {
	client     *redisclient.Client
	key        string
	popTimeout time.Duration
}

// NewRedisJobQueue creates a Redis-backed job queue
func NewRedisJobQueue(client *redisclient.Client, key string, popTimeoutSeconds int) repositories.JobQueue {
	if popTimeoutSeconds <= 0 {
		popTimeoutSeconds = 5
	}
	return &RedisJobQueue{
		client:     client,
		key:        key,
		popTimeout: time.Duration(popTimeoutSeconds) * time.Second,
	}
}

// Enqueue places a job at the back of the queue
func (q *RedisJobQueue) Enqueue(ctx context.Context, job *entities.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.Client().LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Debug().Str("document_id", job.DocumentID).Str("queue", q.key).Msg("job enqueued")
	return nil
}

// Dequeue blocks up to the pop timeout for the next job. It returns
// ErrQueueEmpty on an idle timeout; a job that fails to decode is already
// consumed, so the decode error is the caller's signal to log and drop.
func (q *RedisJobQueue) Dequeue(ctx context.Context) (*entities.Job, error) {
	result, err := q.client.Client().BRPop(ctx, q.popTimeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repositories.ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	// BRPop returns [key, payload]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(result))
	}

	var job entities.Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("corrupt job payload: %w", err)
	}

	return &job, nil
}

// Length returns the number of queued jobs
func (q *RedisJobQueue) Length(ctx context.Context) (int64, error) {
	length, err := q.client.Client().LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}
	return length, nil
}

// Peek returns up to limit queued jobs without consuming them. Entries that
// fail to decode are skipped with a warning so one bad payload cannot hide
// the rest of the queue.
func (q *RedisJobQueue) Peek(ctx context.Context, limit int64) ([]*entities.Job, error) {
	stop := limit - 1
	if limit <= 0 {
		stop = -1
	}

	payloads, err := q.client.Client().LRange(ctx, q.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue contents: %w", err)
	}

	jobs := make([]*entities.Job, 0, len(payloads))
	for _, payload := range payloads {
		var job entities.Job
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			log.Warn().Err(err).Str("queue", q.key).Msg("skipping corrupt queue entry")
			continue
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}
