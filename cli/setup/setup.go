// Package setup provides interactive configuration setup.
package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"codefloe.com/pat-s/stacker/pkg/config"
)

// Command is the setup command for (re)creating the config file.
var Command = &cli.Command{
	Name:  "setup",
	Usage: "create a configuration file interactively",
	Action: func(_ context.Context, _ *cli.Command) error {
		return CreateConfigInteractive()
	},
}

// PromptForConfigCreation prompts user to create a config file.
func PromptForConfigCreation() error {
	fmt.Println("No configuration file found.")

	var createConfig bool
	err := huh.NewConfirm().
		Title("Would you like to create a configuration file now?").
		Affirmative("Yes").
		Negative("No").
		Value(&createConfig).
		Run()
	if err != nil {
		return err
	}

	if !createConfig {
		log.Warn().Msg("continuing without configuration, using defaults")
		return nil
	}

	return CreateConfigInteractive()
}

// CreateConfigInteractive creates a config file interactively.
func CreateConfigInteractive() error {
	cfg := config.DefaultConfig()

	// Select forge type.
	var forgeType string
	err := huh.NewSelect[string]().
		Title("Select your forge type:").
		Options(
			huh.NewOption("GitHub", "github"),
			huh.NewOption("Forgejo/Gitea", "forgejo"),
		).
		Value(&forgeType).
		Run()
	if err != nil {
		return err
	}

	cfg.ForgeType = forgeType

	switch forgeType {
	case "forgejo":
		// Query for Forgejo URL.
		var forgejoURL string
		err = huh.NewInput().
			Title("Forgejo instance URL (e.g., https://codeberg.org):").
			Value(&forgejoURL).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("URL is required for Forgejo")
				}
				return nil
			}).
			Run()
		if err != nil {
			return err
		}

		cfg.ForgejoURL = forgejoURL

		fmt.Println("\nNote: Set FORGEJO_TOKEN environment variable:")
		fmt.Println("  export FORGEJO_TOKEN=<your-token>")
		fmt.Println("\nRequired token scopes for Forgejo/Gitea:")
		fmt.Println("  - repository:read (to look up pull requests)")
		fmt.Println("  - repository:write (to create and update pull requests)")
	case "github":
		fmt.Println("\nNote: Authenticate with `gh auth login` or set GITHUB_TOKEN.")
		fmt.Println("\nRequired token scopes for GitHub:")
		fmt.Println("  - repo (for private repositories)")
		fmt.Println("  - public_repo (for public repositories only)")
	}

	// Select trunk branch override.
	var trunkBranch string
	err = huh.NewInput().
		Title("Trunk branch name (leave empty to auto-detect):").
		Value(&trunkBranch).
		Placeholder("main").
		Run()
	if err != nil {
		return err
	}

	if trunkBranch != "" {
		cfg.TrunkBranch = trunkBranch
	}

	// Select remote.
	var remote string
	err = huh.NewInput().
		Title("Git remote name:").
		Value(&remote).
		Placeholder("origin").
		Run()
	if err != nil {
		return err
	}

	if remote != "" {
		cfg.Remote = remote
	}

	// Create PRs as drafts by default?
	var draft bool
	err = huh.NewConfirm().
		Title("Create pull requests as drafts by default?").
		Affirmative("Yes").
		Negative("No").
		Value(&draft).
		Run()
	if err != nil {
		return err
	}

	cfg.Draft = draft

	// Select config file location.
	var configLocation string
	err = huh.NewSelect[string]().
		Title("Where should the config file be saved?").
		Options(
			huh.NewOption("Repository (.stacker.yaml)", "repo"),
			huh.NewOption("Global (~/.config/stacker/config.yaml)", "global"),
		).
		Value(&configLocation).
		Run()
	if err != nil {
		return err
	}

	var configPath string
	if configLocation == "global" {
		configPath = config.GlobalConfigPath()
	} else {
		configPath = config.RepoConfigPath()
	}

	if err := cfg.SaveToFile(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to: %s\n", configPath)

	return nil
}

// ShouldPromptForConfig checks if we should prompt user to create config.
func ShouldPromptForConfig() bool {
	// Check if any config file exists.
	globalPath := config.GlobalConfigPath()
	repoPath := config.RepoConfigPath()

	_, errGlobal := os.Stat(globalPath)
	_, errRepo := os.Stat(repoPath)

	// If no config files exist at all, prompt.
	return os.IsNotExist(errGlobal) && os.IsNotExist(errRepo)
}
