package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRIMARY_CSV_URL", "https://example.com/orders.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Sources.RefreshInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Sources.SupplementalURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRIMARY_CSV_URL", "https://example.com/orders.csv")
	t.Setenv("SUPPLEMENTAL_CSV_URL", "https://example.com/details.csv")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Sources.RefreshInterval)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "https://example.com/details.csv", cfg.Sources.SupplementalURL)
}

func TestLoadRequiresPrimarySource(t *testing.T) {
	t.Setenv("PRIMARY_CSV_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIMARY_CSV_URL")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("PRIMARY_CSV_URL", "https://example.com/orders.csv")

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-port")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("REFRESH_INTERVAL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
