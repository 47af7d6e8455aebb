// Package config provides configuration management for stacker.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config represents the stacker configuration.
type Config struct {
	// Forge type: "github" or "forgejo".
	ForgeType string `yaml:"forge_type"`

	// Forgejo/Gitea instance URL (only for forgejo forge type).
	ForgejoURL string `yaml:"forgejo_url,omitempty"`

	// Remote name to push bookmarks to.
	Remote string `yaml:"remote"`

	// Trunk branch name override. When empty, the trunk branch is
	// resolved from the repository.
	TrunkBranch string `yaml:"trunk_branch,omitempty"`

	// Create pull requests as drafts by default.
	Draft bool `yaml:"draft"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ForgeType:   "github",
		Remote:      "origin",
		TrunkBranch: "",
		Draft:       false,
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Merge merges another config into this one. Values from other take precedence if non-empty.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.ForgeType != "" {
		c.ForgeType = other.ForgeType
	}
	if other.ForgejoURL != "" {
		c.ForgejoURL = other.ForgejoURL
	}
	if other.Remote != "" {
		c.Remote = other.Remote
	}
	if other.TrunkBranch != "" {
		c.TrunkBranch = other.TrunkBranch
	}
	// Always take explicit boolean settings.
	c.Draft = other.Draft
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "stacker", "config.yaml")
}

// RepoConfigPath returns the path to the repo-local config file.
func RepoConfigPath() string {
	return ".stacker.yaml"
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ForgeType != "" && c.ForgeType != "github" && c.ForgeType != "forgejo" {
		return fmt.Errorf("invalid forge_type: %s (must be 'github' or 'forgejo')", c.ForgeType)
	}
	return nil
}

// SaveToFile saves the configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
