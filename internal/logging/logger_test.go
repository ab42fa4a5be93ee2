package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(slog.LevelInfo, &buf)

	logger.Debug("hidden")
	logger.Warn("cascade aborted", "error", errors.New("limit"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "err=limit")
	assert.NotContains(t, out, "error=")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		level   slog.Level
		enabled bool
		wantErr bool
	}{
		{"", 0, false, false},
		{"off", 0, false, false},
		{"DEBUG", slog.LevelDebug, true, false},
		{"info", slog.LevelInfo, true, false},
		{"warning", slog.LevelWarn, true, false},
		{" error ", slog.LevelError, true, false},
		{"loud", 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, enabled, err := logging.ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.enabled, enabled)
		})
	}
}

func TestFromFlag(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.FromFlag("off", &buf)
	require.NoError(t, err)
	logger.Error("dropped")
	assert.Empty(t, buf.String())

	logger, err = logging.FromFlag("debug", &buf)
	require.NoError(t, err)
	logger.Debug("kept")
	assert.Contains(t, buf.String(), "msg=kept")

	_, err = logging.FromFlag("loud", &buf)
	assert.Error(t, err)
}
