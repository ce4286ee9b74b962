package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "7.1-preview.3", cfg.AzureDevOps.APIVersion)
	assert.Equal(t, 60, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = 9090
environment = "production"

[openai]
endpoint = "https://res.openai.azure.com"
deployment = "gpt-4o"

[azuredevops]
org_url = "https://dev.azure.com/acme"
project = "Platform"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://res.openai.azure.com", cfg.OpenAI.Endpoint)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Deployment)
	assert.Equal(t, "https://dev.azure.com/acme", cfg.AzureDevOps.OrgURL)
	assert.Equal(t, "Platform", cfg.AzureDevOps.Project)
	// Defaults survive a partial file.
	assert.Equal(t, "7.1-preview.3", cfg.AzureDevOps.APIVersion)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "env-key")
	t.Setenv("ADO_PROJECT", "EnvProject")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")

	path := writeConfigFile(t, `
[openai]
endpoint = "https://file.openai.azure.com"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.openai.azure.com", cfg.OpenAI.Endpoint)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "EnvProject", cfg.AzureDevOps.Project)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigRejectsInvalidLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
[logging]
level = "loud"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoadConfigRejectsInvalidLogOutput(t *testing.T) {
	path := writeConfigFile(t, `
[logging]
output = "syslog"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidateRepairsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	cfg.OpenAI.TimeoutSeconds = 0
	cfg.AzureDevOps.TimeoutSeconds = -5
	cfg.AzureDevOps.APIVersion = ""

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, 60, cfg.AzureDevOps.TimeoutSeconds)
	assert.Equal(t, "7.1-preview.3", cfg.AzureDevOps.APIVersion)
}
