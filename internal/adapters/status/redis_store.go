package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/domain/entities"
	"github.com/arkhealth/referral-intake/backend/internal/domain/repositories"
	redisclient "github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/redis"
)

// keyPrefix namespaces every status record key as document:{document_id}
const keyPrefix = "document:"

// RedisStatusStore implements the StatusStore interface on plain Redis
// string values with a per-key TTL. Expiry is the only deletion path.
type RedisStatusStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisStatusStore creates a Redis-backed status store
func NewRedisStatusStore(client *redisclient.Client, ttlSeconds int) repositories.StatusStore {
	if ttlSeconds <= 0 {
		ttlSeconds = 3600
	}
	return &RedisStatusStore{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func statusKey(documentID string) string {
	return keyPrefix + documentID
}

// Write stores the record under the document's key, resetting the expiry
func (s *RedisStatusStore) Write(ctx context.Context, documentID string, record *entities.StatusRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal status record: %w", err)
	}

	if err := s.client.Client().Set(ctx, statusKey(documentID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write status record: %w", err)
	}

	log.Debug().
		Str("document_id", documentID).
		Str("status", string(record.Status)).
		Msg("status record written")
	return nil
}

// Get returns the current record or ErrStatusNotFound once the key expired
func (s *RedisStatusStore) Get(ctx context.Context, documentID string) (*entities.StatusRecord, error) {
	payload, err := s.client.Client().Get(ctx, statusKey(documentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repositories.ErrStatusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read status record: %w", err)
	}

	var record entities.StatusRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("corrupt status record for %s: %w", documentID, err)
	}

	return &record, nil
}

// List scans all live status keys and returns their records keyed by
// document_id. Keys that expire mid-scan or fail to decode are skipped.
func (s *RedisStatusStore) List(ctx context.Context) (map[string]*entities.StatusRecord, error) {
	records := make(map[string]*entities.StatusRecord)

	iter := s.client.Client().Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		payload, err := s.client.Client().Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read status record %s: %w", key, err)
		}

		var record entities.StatusRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("skipping corrupt status record")
			continue
		}

		records[strings.TrimPrefix(key, keyPrefix)] = &record
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan status keys: %w", err)
	}

	return records, nil
}
