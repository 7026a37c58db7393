package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tabskema/internal/logging"
)

func TestNew_DefaultsToWarnText(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.WithOutput(&buf))
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "k=1")
}

func TestNew_JSONWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(
		logging.WithOutput(&buf),
		logging.WithFormat(logging.FormatJSON),
		logging.WithLevel(slog.LevelDebug),
		logging.WithAttr(slog.String("app", "tabskema")),
	)
	l.Debug("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "tabskema", rec["app"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestWithFormat_IgnoresUnknown(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.WithOutput(&buf), logging.WithFormat("xml"), logging.WithOutput(nil))
	l.Warn("x")
	assert.Contains(t, buf.String(), "msg=x")
}

func TestParse(t *testing.T) {
	f, err := logging.ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, logging.FormatJSON, f)
	_, err = logging.ParseFormat("xml")
	assert.Error(t, err)

	l, err := logging.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
	l, err = logging.ParseLevel("info+2")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo+2, l)
	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)
}
