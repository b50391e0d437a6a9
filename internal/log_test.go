package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelError, ParseLogLevel(" ERROR "))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("chatty"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn)

	logger.Info("loaded %d records", 10)
	logger.Debug("noise")
	logger.Warn("3 of 4 expected counts are below %d", 5)
	logger.Error("reload failed")

	out := buf.String()
	assert.NotContains(t, out, "loaded")
	assert.NotContains(t, out, "noise")
	assert.Contains(t, out, "[WARN] 3 of 4 expected counts are below 5")
	assert.Contains(t, out, "[ERROR] reload failed")
}
