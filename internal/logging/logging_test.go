package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = New("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = New("chatty")
	assert.Error(t, err)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewConsole("warn", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("persisted tasks are corrupt", zap.String("driver", "file"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "persisted tasks are corrupt")
	assert.Contains(t, out, `"driver": "file"`)
}
