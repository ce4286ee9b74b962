package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server      ServerConfig      `toml:"server"`
	OpenAI      OpenAIConfig      `toml:"openai"`
	AzureDevOps AzureDevOpsConfig `toml:"azuredevops"`
	Logging     LoggingConfig     `toml:"logging"`
}

type ServerConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	Port        int    `toml:"port"`
}

// OpenAIConfig holds the Azure OpenAI connection settings. Endpoint,
// deployment and API version are required before any oracle call is made;
// they are checked at call time rather than at startup so the service can
// boot (and report health) with incomplete configuration.
type OpenAIConfig struct {
	Endpoint       string `toml:"endpoint"`
	Deployment     string `toml:"deployment"`
	APIVersion     string `toml:"api_version"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AzureDevOpsConfig holds the work item tracking settings. The personal
// access token is never configured here - it arrives per request as a
// bearer credential.
type AzureDevOpsConfig struct {
	OrgURL         string `toml:"org_url"`
	Project        string `toml:"project"`
	APIVersion     string `toml:"api_version"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
}

func DefaultConfig() *Config {
	execPath, _ := os.Executable()
	execName := filepath.Base(execPath)
	execName = execName[:len(execName)-len(filepath.Ext(execName))]

	return &Config{
		Server: ServerConfig{
			Name:        execName,
			Environment: "development",
			Port:        8080,
		},
		OpenAI: OpenAIConfig{
			APIVersion:     "2024-06-01",
			TimeoutSeconds: 60,
		},
		AzureDevOps: AzureDevOpsConfig{
			APIVersion:     "7.1-preview.3",
			TimeoutSeconds: 60,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "both",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile == "" {
		// Auto-detect config file
		execPath, _ := os.Executable()
		execDir := filepath.Dir(execPath)
		execName := filepath.Base(execPath)
		execName = execName[:len(execName)-len(filepath.Ext(execName))]

		possiblePaths := []string{
			filepath.Join(execDir, execName+".toml"),
			filepath.Join(execDir, "config.toml"),
			"config.toml",
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			applyEnvOverrides(config)
			return config, nil
		}
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		config.OpenAI.Endpoint = endpoint
	}
	if deployment := os.Getenv("AZURE_OPENAI_DEPLOYMENT"); deployment != "" {
		config.OpenAI.Deployment = deployment
	}
	if apiVersion := os.Getenv("AZURE_OPENAI_API_VERSION"); apiVersion != "" {
		config.OpenAI.APIVersion = apiVersion
	}
	if apiKey := os.Getenv("AZURE_OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if orgURL := os.Getenv("ADO_ORG_URL"); orgURL != "" {
		config.AzureDevOps.OrgURL = orgURL
	}
	if project := os.Getenv("ADO_PROJECT"); project != "" {
		config.AzureDevOps.Project = project
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}
	if logOutput := os.Getenv("LOG_OUTPUT"); logOutput != "" {
		config.Logging.Output = logOutput
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if portNum, err := strconv.Atoi(port); err == nil {
			config.Server.Port = portNum
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLogLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validOutputs := []string{"console", "file", "both"}
	validOutput := false
	for _, output := range validOutputs {
		if c.Logging.Output == output {
			validOutput = true
			break
		}
	}
	if !validOutput {
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = 60
	}
	if c.AzureDevOps.TimeoutSeconds <= 0 {
		c.AzureDevOps.TimeoutSeconds = 60
	}
	if c.AzureDevOps.APIVersion == "" {
		c.AzureDevOps.APIVersion = "7.1-preview.3"
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
