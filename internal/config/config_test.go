package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, "mongo", cfg.StorageBackend)
	require.Equal(t, "exercisetracker", cfg.MongoDatabase)
	require.Equal(t, "limited", cfg.LogCountMode)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("MONGO_DB_URL", "mongodb://example:27017")
	t.Setenv("LOG_COUNT_MODE", "filtered")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := Load()

	require.Equal(t, ":9999", cfg.HTTPAddress)
	require.Equal(t, "memory", cfg.StorageBackend)
	require.Equal(t, "mongodb://example:27017", cfg.MongoURL)
	require.Equal(t, "filtered", cfg.LogCountMode)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := Load()
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}
