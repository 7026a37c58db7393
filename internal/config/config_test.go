package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tabskema/internal/config"
	"github.com/reoring/tabskema/internal/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		Format:    "text",
		Lang:      "en",
		Delimiter: ",",
		LogLevel:  "warn",
		LogFormat: "text",
	}, cfg)
	assert.Equal(t, ',', cfg.Comma())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TABSKEMA_FORMAT", "json")
	t.Setenv("TABSKEMA_LANG", "ja")
	t.Setenv("TABSKEMA_DELIMITER", ";")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "ja", cfg.Lang)
	assert.Equal(t, ';', cfg.Comma())
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("TABSKEMA_LOG_LEVEL=debug\nTABSKEMA_LOG_FORMAT=json\n"), 0o600))
	t.Setenv("TABSKEMA_LOG_FORMAT", "text")
	// Registered so the variable godotenv sets is removed after the test.
	t.Setenv("TABSKEMA_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("TABSKEMA_LOG_LEVEL"))

	cfg, err := config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("TABSKEMA_FORMAT", "xml")
	t.Setenv("TABSKEMA_LANG", "fr")
	t.Setenv("TABSKEMA_DELIMITER", ";;")
	t.Setenv("TABSKEMA_LOG_LEVEL", "loud")
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.ErrorIs(t, err, config.ErrInvalid)
	for _, want := range []string{`format "xml"`, `lang "fr"`, "single character", "loud"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(file, []byte("TABSKEMA_FORMAT='unterminated\n"), 0o600))
	_, err := config.Load(file)
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{LogLevel: "debug", LogFormat: "json"}
	cfg.Logger(logging.WithOutput(&buf)).Debug("hi")
	assert.Contains(t, buf.String(), `"msg":"hi"`)

	buf.Reset()
	bad := config.Config{LogLevel: "loud", LogFormat: "xml"}
	bad.Logger(logging.WithOutput(&buf)).Info("quiet")
	assert.Empty(t, buf.String())
}
