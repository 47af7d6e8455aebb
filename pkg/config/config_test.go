package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "github", cfg.ForgeType)
	assert.Equal(t, "", cfg.ForgejoURL)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, "", cfg.TrunkBranch)
	assert.False(t, cfg.Draft)
}

func TestConfigMerge(t *testing.T) {
	tests := []struct {
		name     string
		base     *Config
		other    *Config
		expected *Config
	}{
		{
			name: "merge partial config",
			base: DefaultConfig(),
			other: &Config{
				Remote: "upstream",
			},
			expected: &Config{
				ForgeType:   "github",
				Remote:      "upstream",
				TrunkBranch: "",
				Draft:       false,
			},
		},
		{
			name: "merge full config",
			base: DefaultConfig(),
			other: &Config{
				ForgeType:   "forgejo",
				ForgejoURL:  "https://codeberg.org",
				Remote:      "upstream",
				TrunkBranch: "develop",
				Draft:       true,
			},
			expected: &Config{
				ForgeType:   "forgejo",
				ForgejoURL:  "https://codeberg.org",
				Remote:      "upstream",
				TrunkBranch: "develop",
				Draft:       true,
			},
		},
		{
			name:     "merge nil config",
			base:     DefaultConfig(),
			other:    nil,
			expected: DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.base.Merge(tt.other)
			assert.Equal(t, tt.expected.ForgeType, tt.base.ForgeType)
			assert.Equal(t, tt.expected.ForgejoURL, tt.base.ForgejoURL)
			assert.Equal(t, tt.expected.Remote, tt.base.Remote)
			assert.Equal(t, tt.expected.TrunkBranch, tt.base.TrunkBranch)
			assert.Equal(t, tt.expected.Draft, tt.base.Draft)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantError bool
	}{
		{
			name:      "valid default config",
			config:    DefaultConfig(),
			wantError: false,
		},
		{
			name: "valid forgejo forge type",
			config: &Config{
				ForgeType: "forgejo",
			},
			wantError: false,
		},
		{
			name: "valid empty forge type",
			config: &Config{
				ForgeType: "",
			},
			wantError: false,
		},
		{
			name: "invalid forge type",
			config: &Config{
				ForgeType: "gitlab",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
forge_type: github
remote: upstream
trunk_branch: develop
draft: true
`

	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "github", cfg.ForgeType)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, "develop", cfg.TrunkBranch)
	assert.True(t, cfg.Draft)
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := &Config{
		ForgeType:   "github",
		Remote:      "origin",
		TrunkBranch: "main",
		Draft:       true,
	}

	err := cfg.SaveToFile(configPath)
	require.NoError(t, err)

	// Verify file exists.
	_, err = os.Stat(configPath)
	assert.NoError(t, err)

	// Load it back.
	loaded, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, cfg.ForgeType, loaded.ForgeType)
	assert.Equal(t, cfg.Remote, loaded.Remote)
	assert.Equal(t, cfg.TrunkBranch, loaded.TrunkBranch)
	assert.Equal(t, cfg.Draft, loaded.Draft)
}

func TestGlobalConfigPath(t *testing.T) {
	path := GlobalConfigPath()
	assert.Contains(t, path, ".config")
	assert.Contains(t, path, "stacker")
	assert.Contains(t, path, "config.yaml")
}

func TestRepoConfigPath(t *testing.T) {
	path := RepoConfigPath()
	assert.Equal(t, ".stacker.yaml", path)
}
