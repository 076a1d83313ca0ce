package config

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// unsetenv removes the variables for the duration of the test.
// t.Setenv snapshots the original value for restore before the unset.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/orders?sslmode=disable")
	unsetenv(t, "NATS_URL", "HEALTH_PORT", "LOG_LEVEL", "PRODUCTS_SUBJECT", "NATS_REQUEST_TIMEOUT_MS")

	cfg, err := LoadConfig(testLogger())

	require.NoError(t, err)
	assert.Equal(t, "nats://localhost:4222", cfg.NatsURL)
	assert.Equal(t, ":8082", cfg.HealthPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "products.validate", cfg.ProductsSubject)
	assert.Equal(t, 5000, cfg.NatsRequestTimeoutMS)
}

func TestLoadConfig_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/orders")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NATS_REQUEST_TIMEOUT_MS", "2500")

	cfg, err := LoadConfig(testLogger())

	require.NoError(t, err)
	assert.Equal(t, "postgres://db:5432/orders", cfg.DatabaseURL)
	assert.Equal(t, "nats://broker:4222", cfg.NatsURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2500, cfg.NatsRequestTimeoutMS)
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	unsetenv(t, "DATABASE_URL")

	_, err := LoadConfig(testLogger())

	assert.Error(t, err)
}

func TestLoadConfig_RejectsEmptyDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig(testLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
