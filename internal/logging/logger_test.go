package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("dispatched", "error", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=dispatched")
	assert.Contains(t, out, "err=boom")
}

func TestForVerbosity(t *testing.T) {
	assert.True(t, ForVerbosity(true).Enabled(t.Context(), slog.LevelDebug))
	assert.False(t, ForVerbosity(false).Enabled(t.Context(), slog.LevelError))
}
