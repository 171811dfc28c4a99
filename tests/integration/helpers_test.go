//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/redis"
	"github.com/arkhealth/referral-intake/backend/pkg/config"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	cfg := &config.RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	}

	client, err := redis.NewClient(cfg)
	require.NoError(t, err, "Failed to create redis client")
	t.Cleanup(func() { client.Close() })
	return client
}

// testQueueKey returns a unique list key so parallel runs cannot interleave,
// and removes it when the test finishes.
func testQueueKey(t *testing.T, client *redis.Client) string {
	t.Helper()

	key := fmt.Sprintf("test:document_queue:%d", time.Now().UnixNano())
	t.Cleanup(func() {
		client.Client().Del(context.Background(), key)
	})
	return key
}

// cleanupStatusKey removes the status record a test wrote for documentID.
func cleanupStatusKey(t *testing.T, client *redis.Client, documentID string) {
	t.Helper()

	t.Cleanup(func() {
		client.Client().Del(context.Background(), "document:"+documentID)
	})
}
