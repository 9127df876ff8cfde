package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		// When
		cfg, err := LoadConfig("")

		// Then
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, "tradeline-atlas.db", cfg.Storage.DBPath)
		assert.Equal(t, 1000, cfg.Storage.MaxRuns)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("file and environment", func(t *testing.T) {
		// Given
		path := filepath.Join(t.TempDir(), "tradeline.yaml")
		content := `
server:
  port: "9090"
  shutdown_timeout: 3s
storage:
  max_runs: 50
thresholds:
  path: /etc/tradeline/thresholds.ini
aws:
  profile: reports
log:
  level: debug
  pretty: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("TRADELINE_SERVER_HOST", "0.0.0.0")
		t.Setenv("TRADELINE_LOG_LEVEL", "warn")

		// When
		cfg, err := LoadConfig(path)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, 50, cfg.Storage.MaxRuns)
		assert.Equal(t, "/etc/tradeline/thresholds.ini", cfg.Thresholds.Path)
		assert.Equal(t, "reports", cfg.AWS.Profile)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.True(t, cfg.Log.Pretty)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestLogConfig_Logger(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := LogConfig{Level: tt.level}.Logger(&buf)

			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}

	t.Run("writes json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := LogConfig{Level: "info"}.Logger(&buf)
		logger.Info().Msg("ready")

		assert.Contains(t, buf.String(), `"message":"ready"`)
	})
}
