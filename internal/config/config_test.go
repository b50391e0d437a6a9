package config

import (
	"os"
	"path/filepath"
	"testing"

	"bikestats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	ConfigFileEnv, "PORT", "GIN_MODE", "DATA_FILE", "SORT_BY_TIME", "EVENT_LOG_FILE",
	"ALPHA", "PARQUET_COMPRESSION", "CHART_WIDTH", "CHART_HEIGHT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, "SNAPPY", cfg.Export.ParquetCompression)
	assert.Error(t, cfg.RequireDataFile())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bikestats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
data:
  file: data/train.csv
  sort_by_time: true
analysis:
  alpha: 0.01
charts:
  width: 640
  height: 480
`), 0644))
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("ALPHA", "0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "data/train.csv", cfg.Data.File)
	assert.True(t, cfg.Data.SortByTime)
	assert.Equal(t, 0.1, cfg.Analysis.Alpha)
	assert.Equal(t, 640, cfg.Charts.Width)
	assert.Equal(t, "logs/events.jsonl", cfg.Data.EventLogFile)
	assert.NoError(t, cfg.RequireDataFile())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"alpha too large", map[string]string{"ALPHA": "1.5"}},
		{"alpha zero", map[string]string{"ALPHA": "0"}},
		{"bad compression", map[string]string{"PARQUET_COMPRESSION": "lz4"}},
		{"bad chart size", map[string]string{"CHART_WIDTH": "-1"}},
		{"missing file", map[string]string{ConfigFileEnv: "/nonexistent/bikestats.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
