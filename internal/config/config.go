// Package config handles configuration for the DevAI workbench.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emredev/devai/internal/models"
)

// Config represents the user configuration. The escalation and
// confidence thresholds are deliberately tunable: historical revisions
// of this system disagreed on the exact cutoffs, and nothing depends on
// a single "correct" value.
type Config struct {
	// Models maps tier names (FAST, CODER, ARCHITECT, STRATEGY) to
	// provider model ids.
	Models map[string]string `json:"models"`
	// ContextThreshold is the serialized-history size in characters
	// past which requests route to the architect tier.
	ContextThreshold int `json:"context_threshold"`
	// MinResponseChars is the minimum reply length that passes the
	// orchestrator's confidence check.
	MinResponseChars int `json:"min_response_chars"`
	// RequestTimeout is the provider call timeout in seconds. Large
	// context requests are slow, so the default is generous.
	RequestTimeout int `json:"request_timeout"`
	// MaxTokens bounds the provider's output length.
	MaxTokens int `json:"max_tokens"`
	// MaxBodyBytes limits inbound HTTP request bodies. File and folder
	// context can be large, so this is well above typical JSON sizes.
	MaxBodyBytes int `json:"max_body_bytes"`
	// ServerAddr is the listen address for the serve command.
	ServerAddr string `json:"server_addr"`
	// APIBase optionally overrides the provider base URL (for
	// compatible gateways and local stacks).
	APIBase string `json:"api_base,omitempty"`
	// Verbose enables detailed stderr output during operations.
	Verbose bool `json:"verbose"`
	// CopyToClipboard copies one-shot query replies to the clipboard.
	CopyToClipboard bool `json:"copy_to_clipboard"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Models: map[string]string{
			models.TierFast.String():      "gpt-5-mini",
			models.TierCoder.String():     "gpt-5.2-codex",
			models.TierArchitect.String(): "gpt-5.2",
			models.TierStrategy.String():  "gpt-5.2",
		},
		ContextThreshold: 5000,
		MinResponseChars: 50,
		RequestTimeout:   300,
		MaxTokens:        8000,
		MaxBodyBytes:     10 << 20,
		ServerAddr:       ":3001",
		Verbose:          false,
		CopyToClipboard:  false,
	}
}

// ModelForTier returns the configured provider model id for a tier,
// falling back to the default mapping for unknown entries.
func (c Config) ModelForTier(tier models.Tier) string {
	if name, ok := c.Models[tier.String()]; ok && name != "" {
		return name
	}
	return DefaultConfig().Models[tier.String()]
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".devai"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk. A missing file yields
// the defaults; a corrupt file is an error so typos don't silently
// reset tuning.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from an explicit path.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetSessionsDir returns the directory chat sessions persist under.
func GetSessionsDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "sessions"), nil
}
