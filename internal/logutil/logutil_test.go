package logutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("loaded", "partitions", 3)
	out := buf.String()
	assert.Contains(t, out, "msg=loaded")
	assert.Contains(t, out, "partitions=3")
	assert.Contains(t, out, "source=logutil_test.go:")
	assert.NotContains(t, out, "/logutil_test.go")
}

func TestNewLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelDebug).Debug("om partition", "kind", "ModelDef")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "kind=ModelDef")
}
