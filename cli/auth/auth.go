// Package auth provides commands for testing and explaining forge
// authentication.
package auth

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"codefloe.com/pat-s/stacker/cli/internal"
)

// Command is the auth command.
var Command = &cli.Command{
	Name:  "auth",
	Usage: "test and explain forge authentication",
	Commands: []*cli.Command{
		testCmd,
		setupCmd,
	},
}

var testCmd = &cli.Command{
	Name:   "test",
	Usage:  "verify authentication against the forge",
	Action: authTest,
}

var setupCmd = &cli.Command{
	Name:   "setup",
	Usage:  "explain how authentication is resolved",
	Action: authSetup,
}

func authTest(ctx context.Context, c *cli.Command) error {
	service, err := internal.CreateService(ctx, c)
	if err != nil {
		return err
	}

	if service.Token != nil {
		fmt.Printf("Authentication source: %s\n", service.Token.Source)
	} else {
		fmt.Println("Authentication source: FORGEJO_TOKEN environment variable")
	}

	username, err := service.Forge.AuthenticatedUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify authentication: %w", err)
	}

	fmt.Printf("Authenticated as: %s\n", username)
	return nil
}

func authSetup(_ context.Context, _ *cli.Command) error {
	fmt.Println("stacker resolves GitHub authentication in this order:")
	fmt.Println()
	fmt.Println("  1. GitHub CLI:    Run `gh auth login` to authenticate.")
	fmt.Println("                    This is the recommended method.")
	fmt.Println()
	fmt.Println("  2. GITHUB_TOKEN:  Set the GITHUB_TOKEN environment variable")
	fmt.Println("                    to a personal access token with `repo` scope.")
	fmt.Println()
	fmt.Println("  3. GH_TOKEN:      Set the GH_TOKEN environment variable")
	fmt.Println("                    (same as GITHUB_TOKEN, alternative name).")
	fmt.Println()
	fmt.Println("For Forgejo/Gitea, set the FORGEJO_TOKEN environment variable.")
	fmt.Println()
	fmt.Println("To verify: run `stacker auth test`")
	return nil
}
