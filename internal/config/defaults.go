package config

import (
	"log/slog"

	"github.com/docscout/docscout/internal/agent"
	"github.com/docscout/docscout/internal/providers"
)

// Config is the full runtime configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Scan     ScanConfig     `mapstructure:"scan" yaml:"scan"`
}

// ProviderConfig configures the text-generation service boundary.
type ProviderConfig struct {
	Type            string  `mapstructure:"type" yaml:"type"`
	Model           string  `mapstructure:"model" yaml:"model"`
	APIKey          string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL         string  `mapstructure:"base_url" yaml:"base_url"`
	MaxRetries      int     `mapstructure:"max_retries" yaml:"max_retries"`
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
}

// ScanConfig configures the scan loop's budgets.
type ScanConfig struct {
	WindowItems     int  `mapstructure:"window_items" yaml:"window_items"`
	WindowBytes     int  `mapstructure:"window_bytes" yaml:"window_bytes"`
	EvidenceCap     int  `mapstructure:"evidence_cap" yaml:"evidence_cap"`
	MaxSteps        int  `mapstructure:"max_steps" yaml:"max_steps"`
	SnapshotTail    int  `mapstructure:"snapshot_tail" yaml:"snapshot_tail"`
	IncludeHeadings bool `mapstructure:"include_headings" yaml:"include_headings"`
}

// DefaultConfig returns the default configuration. Temperature stays at 0:
// the scan protocol is designed to be deterministic.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type:            "openai",
			Model:           "gpt-4o-mini",
			APIKey:          "${OPENAI_API_KEY}",
			MaxRetries:      3,
			Temperature:     0,
			MaxOutputTokens: 2048,
		},
		Scan: ScanConfig{
			WindowItems:     8,
			WindowBytes:     4096,
			EvidenceCap:     20,
			MaxSteps:        12,
			SnapshotTail:    5,
			IncludeHeadings: false,
		},
	}
}

// ToProviderConfig converts the provider section into an OpenAI client
// config, resolving ${ENV_VAR} references in the API key.
func (c *Config) ToProviderConfig() providers.OpenAIConfig {
	return providers.OpenAIConfig{
		APIKey:       ResolveEnvVars(c.Provider.APIKey),
		BaseURL:      c.Provider.BaseURL,
		DefaultModel: c.Provider.Model,
		MaxRetries:   c.Provider.MaxRetries,
	}
}

// ToAgentConfig assembles a scanner configuration around the given client.
func (c *Config) ToAgentConfig(client providers.LLMClient, logger *slog.Logger) agent.Config {
	return agent.Config{
		Client:          client,
		Model:           c.Provider.Model,
		Temperature:     c.Provider.Temperature,
		MaxOutputTokens: c.Provider.MaxOutputTokens,
		WindowItems:     c.Scan.WindowItems,
		WindowBytes:     c.Scan.WindowBytes,
		EvidenceCap:     c.Scan.EvidenceCap,
		MaxSteps:        c.Scan.MaxSteps,
		SnapshotTail:    c.Scan.SnapshotTail,
		IncludeHeadings: c.Scan.IncludeHeadings,
		Logger:          logger,
	}
}
