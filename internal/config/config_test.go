package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CHATWIRE_SIGNING_SECRET", testSecret)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "localhost:8000", cfg.ServerAddr)
		assert.Empty(t, cfg.DatabaseDSN)
		assert.Equal(t, 50, cfg.HistoryLimit)

		wantKey, _ := base64.StdEncoding.DecodeString(testSecret)
		assert.Equal(t, wantKey, cfg.SigningKey)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CHATWIRE_SIGNING_SECRET", testSecret)
		t.Setenv("CHATWIRE_ADDR", ":9000")
		t.Setenv("CHATWIRE_DSN", "postgres://localhost:5432/chatwire?sslmode=disable")
		t.Setenv("CHATWIRE_HISTORY_LIMIT", "25")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.ServerAddr)
		assert.Equal(t, "postgres://localhost:5432/chatwire?sslmode=disable", cfg.DatabaseDSN)
		assert.Equal(t, 25, cfg.HistoryLimit)
	})

	t.Run("missing signing secret", func(t *testing.T) {
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid signing secret", func(t *testing.T) {
		t.Setenv("CHATWIRE_SIGNING_SECRET", "not base64!!!")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid history limit", func(t *testing.T) {
		t.Setenv("CHATWIRE_SIGNING_SECRET", testSecret)
		t.Setenv("CHATWIRE_HISTORY_LIMIT", "0")

		_, err := Load()
		assert.Error(t, err)
	})
}
