package log

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/olusolaa/helm-guard/internal/errors"
)

func TestNewLoggerRejectsUnknownSettings(t *testing.T) {
	_, err := NewLogger(Config{Level: "trace"})
	assert.True(t, apperrors.Is(err, apperrors.CodeConfigValidation))

	_, err = NewLogger(Config{Format: "xml"})
	assert.True(t, apperrors.Is(err, apperrors.CodeConfigValidation))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LevelWarn, Format: FormatText, Output: &buf})
	require.NoError(t, err)

	logger.Infof(context.Background(), "hidden %d", 1)
	logger.Warnf(context.Background(), "shown %d", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")
}

func TestJSONErrorAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	appErr := apperrors.New(apperrors.CodeCommandError, "helm failed").WithDetails("stderr=boom")
	logger.WithFields(map[string]any{"component": "engine"}).Errorf(context.Background(), appErr, "render failed")

	var record map[string]any
	require.NoError(t, stdjson.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record))
	assert.Equal(t, "render failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, string(apperrors.CodeCommandError), record["error_code"])
	assert.Equal(t, "stderr=boom", record["error_details"])
	assert.Equal(t, "engine", record["component"])
}
