package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadAppliesDefaultsAndValidates(t *testing.T) {
	path := writeConfig(t, `
model_name = "gpt-4o-mini"
api_key = "sk-test"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName)
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 2000, cfg.MaxTokens)
}

func TestLoadExpandsEnvWithDefault(t *testing.T) {
	path := writeConfig(t, `
model_name = "gpt-4o-mini"
api_key = "${HELIOS_TEST_API_KEY:-fallback-key}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.APIKey)
}

func TestLoadExpandsEnvFromProcessEnvironment(t *testing.T) {
	t.Setenv("HELIOS_TEST_API_KEY", "real-key")
	path := writeConfig(t, `
model_name = "gpt-4o-mini"
api_key = "${HELIOS_TEST_API_KEY}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "real-key", cfg.APIKey)
}

func TestLoadRejectsMissingModelName(t *testing.T) {
	path := writeConfig(t, `api_key = "sk-test"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model_name")
}

func TestLoadRejectsOutOfRangeTemperature(t *testing.T) {
	path := writeConfig(t, `
model_name = "gpt-4o-mini"
api_key = "sk-test"
temperature = 3.5
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestLoadAllowsMissingAPIKeyWithLocalBackend(t *testing.T) {
	path := writeConfig(t, `
model_name = "local-model"

[local]
enabled = true
model_path = "/models/local.bin"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Local)
	assert.True(t, cfg.Local.Enabled)
	assert.Equal(t, "/models/local.bin", cfg.Local.ModelPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}
