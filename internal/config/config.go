// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the stockwars configuration.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	LLM    LLMConfig    `toml:"llm"`
	Impact ImpactConfig `toml:"impact"`
}

// StoreConfig contains agent registry storage settings.
type StoreConfig struct {
	Path string `toml:"path"`
}

// LLMConfig contains LLM provider settings.
type LLMConfig struct {
	Provider      string  `toml:"provider"`
	Model         string  `toml:"model"`          // static default; the registry default wins when set
	FallbackModel string  `toml:"fallback_model"` // used for the single bounded retry
	APIKeyEnv     string  `toml:"api_key_env"`
	BaseURL       string  `toml:"base_url"`
	MaxTokens     int     `toml:"max_tokens"`
	Temperature   float64 `toml:"temperature"`
}

// ImpactConfig contains the maximum absolute percentage move per severity tier.
type ImpactConfig struct {
	Low      float64 `toml:"low"`
	Moderate float64 `toml:"moderate"`
	High     float64 `toml:"high"`
	Extreme  float64 `toml:"extreme"`
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "stockwars.db",
		},
		LLM: LLMConfig{
			MaxTokens:   1024,
			Temperature: 0.7,
		},
		Impact: ImpactConfig{
			Low:      6,
			Moderate: 15,
			High:     25,
			Extreme:  40,
		},
	}
}

// Default returns a default configuration.
func Default() *Config {
	return New()
}

// LoadFile loads configuration from a TOML file.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from stockwars.toml in the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return LoadFile(filepath.Join(cwd, "stockwars.toml"))
}

// GetAPIKey returns the API key from the configured environment variable.
// If api_key_env is not set, uses the default env var for the provider.
func (c *Config) GetAPIKey() string {
	return APIKeyFor(c.LLM.Provider, c.LLM.APIKeyEnv)
}

// APIKeyFor resolves the API key for a provider, preferring an explicit
// env var name over the provider's conventional one.
func APIKeyFor(provider, envVar string) string {
	if envVar == "" {
		envVar = DefaultAPIKeyEnv(provider)
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// DefaultAPIKeyEnv returns the default environment variable name for a provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "google":
		return "GOOGLE_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	default:
		return ""
	}
}
