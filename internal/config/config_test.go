package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)
	t.Setenv("GOOGLE_PLACES_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "app/assets/world_universities_and_domains.json", cfg.Dataset.Input)
	assert.Equal(t, "app/assets/world_universities_with_states.json", cfg.Dataset.LocalOutput)
	assert.Equal(t, "app/assets/world_universities_enhanced.json", cfg.Dataset.RemoteOutput)
	assert.Contains(t, cfg.Dataset.SourceURL, "university-domains-list")
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Nominatim.BaseURL)
	assert.Equal(t, 1100*time.Millisecond, cfg.Nominatim.Interval())
	assert.Equal(t, 10*time.Second, cfg.Nominatim.Timeout())
	assert.Equal(t, "en", cfg.Nominatim.AcceptLanguage)
	assert.Equal(t, "https://places.googleapis.com/v1", cfg.Google.BaseURL)
	assert.Equal(t, 100000, cfg.Google.MaxRequests)
	assert.Equal(t, 10, cfg.Batch.Size)
	assert.Equal(t, 100, cfg.Batch.RecordDelayMS)
	assert.Equal(t, 1000, cfg.Batch.BatchDelayMS)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*24*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Google.Key)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
dataset:
  input: data/unis.json
log:
  level: debug
  format: json
batch:
  size: 25
cache:
  enabled: false
regions:
  overrides_path: regions.yaml
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/unis.json", cfg.Dataset.Input)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 25, cfg.Batch.Size)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "regions.yaml", cfg.Regions.OverridesPath)
	// Defaults still apply for unset values
	assert.Equal(t, 1100, cfg.Nominatim.IntervalMS)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
batch:
  size: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CAMPUS_LOG_LEVEL", "warn")
	t.Setenv("CAMPUS_BATCH_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Batch.Size)
}

func TestLoadGoogleKeyFromLegacyEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GOOGLE_PLACES_API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Google.Key)
}

func TestLoadGoogleKeyPrefixedEnvWins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GOOGLE_PLACES_API_KEY", "legacy-key")
	t.Setenv("CAMPUS_GOOGLE_KEY", "prefixed-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.Google.Key)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Dataset.Input = "in.json"
	cfg.Nominatim.BaseURL = "https://nominatim.openstreetmap.org"
	cfg.Nominatim.UserAgent = "test-agent"
	cfg.Nominatim.IntervalMS = 1100
	cfg.Google.MaxRequests = 100
	cfg.Batch.Size = 10
	return cfg
}

func TestValidateLocal(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("local"))

	cfg.Dataset.Input = ""
	err := cfg.Validate("local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.input is required")
}

func TestValidateNominatim(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("nominatim"))

	cfg.Nominatim.IntervalMS = 200
	cfg.Nominatim.UserAgent = ""
	err := cfg.Validate("nominatim")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval_ms must be >= 1000")
	assert.Contains(t, err.Error(), "user_agent is required")
}

func TestValidateGoogle(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("google")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.key is required")

	cfg.Google.Key = "key"
	assert.NoError(t, cfg.Validate("google"))

	cfg.Batch.Size = 0
	err = cfg.Validate("google")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.size must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
