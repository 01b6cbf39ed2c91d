package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, []string{"stdout"}, config.Logging.Output)
	assert.Equal(t, 9999, config.Garmin.SearchLimit)
	assert.Equal(t, 2, config.Garmin.RateLimit)
	assert.Empty(t, config.Garmin.Username)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcprivacy.toml")
	content := `
[logging]
level = "debug"

[garmin]
username = "athlete@example.com"
privacy = "private"
search_limit = 500
rate_limit = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "athlete@example.com", config.Garmin.Username)
	assert.Equal(t, "private", config.Garmin.Privacy)
	assert.Equal(t, 500, config.Garmin.SearchLimit)
	assert.Equal(t, 5, config.Garmin.RateLimit)

	// Unset values keep their defaults
	assert.Equal(t, []string{"stdout"}, config.Logging.Output)
}

func TestLoadFromFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcprivacy.toml")
	content := `
[garmin]
username = "from-file"
privacy = "public"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("GARMIN_USERNAME", "from-env")
	t.Setenv("GCPRIVACY_LOG_LEVEL", "warn")
	t.Setenv("GCPRIVACY_RATE_LIMIT", "3")

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", config.Garmin.Username)
	assert.Equal(t, "public", config.Garmin.Privacy, "env must not clobber values it does not set")
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, 3, config.Garmin.RateLimit)
}

func TestLoadFromFile_MissingExplicitFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadFromFile_AutoDiscoverAbsentIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, 9999, config.Garmin.SearchLimit)
}

func TestLoadFromFile_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcprivacy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[garmin\nusername = "), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
}
