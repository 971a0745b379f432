// Copyright 2025 Utrippin Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	// ErrMissingRequiredField is returned when a required configuration field is missing
	ErrMissingRequiredField = errors.New("missing required configuration field")
	// ErrInvalidConfigValue is returned when a configuration value is invalid
	ErrInvalidConfigValue = errors.New("invalid configuration value")
)

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Anthropic    AnthropicConfig    `mapstructure:"anthropic"`
	Generation   GenerationConfig   `mapstructure:"generation"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Normalizer   NormalizerConfig   `mapstructure:"normalizer"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// OpenAIConfig contains the primary provider configuration. An empty API key
// means the provider is skipped in the failover chain, not a config error.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"apikey"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	RPS         float64 `mapstructure:"rps"`
}

// AnthropicConfig contains the secondary provider configuration
type AnthropicConfig struct {
	APIKey    string `mapstructure:"apikey"`
	Endpoint  string `mapstructure:"endpoint"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// GenerationConfig tunes the trip pipeline
type GenerationConfig struct {
	PackageCount        int `mapstructure:"package_count"`
	StageTimeoutSeconds int `mapstructure:"stage_timeout_seconds"`
	PromptMaxTokens     int `mapstructure:"prompt_max_tokens"`
}

// ConversationConfig contains conversation store configuration
type ConversationConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// NormalizerConfig tunes itinerary content normalization
type NormalizerConfig struct {
	AssumedPartySize int `mapstructure:"assumed_party_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed for field '%s': %s", e.Field, e.Message)
}

// LoadOptions contains options for configuration loading
type LoadOptions struct {
	ConfigPath       string
	Environment      string
	ValidateRequired bool
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over config file values
func Load(configPath string) (*Config, error) {
	return LoadWithOptions(LoadOptions{
		ConfigPath:       configPath,
		Environment:      getEnvironment(),
		ValidateRequired: true,
	})
}

// LoadWithOptions loads configuration with additional options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := setConfigFile(v, opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to set config file: %w", err)
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("UTRIPPIN")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error if env vars are set
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	setEnvironmentMappings(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if opts.ValidateRequired {
		if err := validateConfig(&config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)

	// Primary provider defaults
	v.SetDefault("openai.endpoint", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.max_tokens", 4000)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.rps", 2.0)

	// Secondary provider defaults
	v.SetDefault("anthropic.endpoint", "https://api.anthropic.com/v1/messages")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 2000)

	// Generation defaults
	v.SetDefault("generation.package_count", 5)
	v.SetDefault("generation.stage_timeout_seconds", 30)
	v.SetDefault("generation.prompt_max_tokens", 4000)

	// Conversation defaults
	v.SetDefault("conversation.db_path", "./conversations.db")

	// Normalizer defaults
	v.SetDefault("normalizer.assumed_party_size", 2)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// setConfigFile sets the configuration file path with fallback logic
func setConfigFile(v *viper.Viper, configPath string) error {
	// Check for CONFIG_PATH environment variable
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return fmt.Errorf("config file specified by CONFIG_PATH does not exist: %s", envPath)
		}
		v.SetConfigFile(envPath)
		return nil
	}

	// Use provided config path
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file does not exist: %s", configPath)
		}
		v.SetConfigFile(configPath)
		return nil
	}

	// Default fallback locations; running on env vars alone is fine.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	return nil
}

// setEnvironmentMappings sets explicit environment variable mappings
func setEnvironmentMappings(v *viper.Viper) {
	envMappings := map[string]string{
		"OPENAI_API_KEY":       "openai.apikey",
		"OPENAI_ENDPOINT":      "openai.endpoint",
		"ANTHROPIC_API_KEY":    "anthropic.apikey",
		"ANTHROPIC_ENDPOINT":   "anthropic.endpoint",
		"CONVERSATION_DB_PATH": "conversation.db_path",
		"PORT":                 "server.port",
		"LOG_LEVEL":            "logging.level",
		"LOG_FORMAT":           "logging.format",
		"LOG_OUTPUT":           "logging.output",
	}

	for envVar, configKey := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			v.Set(configKey, value)
		}
	}
}

// validateConfig validates the configuration for required fields and valid
// values. Provider API keys are deliberately not required: an unconfigured
// provider is skipped at request time and the synthesizer still answers.
func validateConfig(config *Config) error {
	var errors []ValidationError

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if config.OpenAI.MaxTokens <= 0 {
		errors = append(errors, ValidationError{
			Field:   "openai.max_tokens",
			Message: "max_tokens must be greater than 0",
		})
	}

	if config.OpenAI.Temperature < 0 || config.OpenAI.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "openai.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if config.Anthropic.MaxTokens <= 0 {
		errors = append(errors, ValidationError{
			Field:   "anthropic.max_tokens",
			Message: "max_tokens must be greater than 0",
		})
	}

	if config.Generation.PackageCount <= 0 {
		errors = append(errors, ValidationError{
			Field:   "generation.package_count",
			Message: "package_count must be greater than 0",
		})
	}

	if config.Generation.StageTimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "generation.stage_timeout_seconds",
			Message: "stage_timeout_seconds must be greater than 0",
		})
	}

	if config.Normalizer.AssumedPartySize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "normalizer.assumed_party_size",
			Message: "assumed_party_size must be greater than 0",
		})
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, config.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("log level must be one of: %s", strings.Join(validLogLevels, ", ")),
		})
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, config.Logging.Format) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("log format must be one of: %s", strings.Join(validLogFormats, ", ")),
		})
	}

	if config.Conversation.DBPath == "" {
		errors = append(errors, ValidationError{
			Field:   "conversation.db_path",
			Message: "conversation database path is required",
		})
	}

	if config.Conversation.DBPath != "" {
		if err := validateDirectoryExists(filepath.Dir(config.Conversation.DBPath)); err != nil {
			errors = append(errors, ValidationError{
				Field:   "conversation.db_path",
				Message: fmt.Sprintf("conversation database directory does not exist: %s", filepath.Dir(config.Conversation.DBPath)),
			})
		}
	}

	if len(errors) > 0 {
		var errorMessages []string
		for _, err := range errors {
			errorMessages = append(errorMessages, err.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errorMessages, "\n"))
	}

	return nil
}

// MaskSensitiveValues returns a copy of the config with sensitive values masked
func (c *Config) MaskSensitiveValues() *Config {
	masked := *c

	if masked.OpenAI.APIKey != "" {
		masked.OpenAI.APIKey = maskValue(masked.OpenAI.APIKey)
	}
	if masked.Anthropic.APIKey != "" {
		masked.Anthropic.APIKey = maskValue(masked.Anthropic.APIKey)
	}

	return &masked
}

// maskValue masks sensitive values, showing only the first 8 characters
func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:8] + strings.Repeat("*", len(value)-8)
}

// contains checks if a slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateDirectoryExists checks if a directory exists
func validateDirectoryExists(path string) error {
	if path == "" || path == "." {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}

// getEnvironment returns the current environment (development, production, etc.)
func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "development"
}

// WatchConfig enables configuration hot-reloading for development
func WatchConfig(configPath string, callback func(*Config)) error {
	v := viper.New()

	if err := setConfigFile(v, configPath); err != nil {
		return err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Printf("Config file changed: %s\n", e.Name)

		config, err := LoadWithOptions(LoadOptions{
			ConfigPath:       configPath,
			Environment:      getEnvironment(),
			ValidateRequired: true,
		})
		if err != nil {
			fmt.Printf("Failed to reload config: %v\n", err)
			return
		}

		callback(config)
	})

	return nil
}
