package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeSettings(t, `
log_level  = "DEBUG"
log_format = "json"
artifact   = "build/commands.yaml"

defaults {
  threads = 8
}
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel, "levels are normalized to lower case")
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, "build/commands.yaml", s.Artifact)
	assert.Equal(t, int64(8), s.Defaults.Threads)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeSettings(t, `log_level = "warn"`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, "gaction.yaml", s.Artifact)
	assert.Equal(t, int64(1), s.Defaults.Threads)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvSettings, "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeSettings(t, `log_level = "error"`)
	t.Setenv(EnvSettings, path)

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", s.LogLevel)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeSettings(t, `log_level = "loud"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")

	_, err = Load(writeSettings(t, `log_format = "xml"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_format")

	_, err = Load(writeSettings(t, `log_level = `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse settings file")
}
