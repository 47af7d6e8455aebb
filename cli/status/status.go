// Package status provides the status command showing the repository's
// bookmark stacks.
package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"codefloe.com/pat-s/stacker/cli/internal"
	"codefloe.com/pat-s/stacker/pkg/graph"
	"codefloe.com/pat-s/stacker/pkg/jj"
)

// Command is the status command.
var Command = &cli.Command{
	Name:   "status",
	Usage:  "show the default branch, remotes, and bookmark stacks",
	Action: showStatus,
}

// showStatus only talks to the local jj repository, so it works without
// forge authentication.
func showStatus(ctx context.Context, _ *cli.Command) error {
	jjClient := jj.NewClient(jj.ExecRunner{})

	defaultBranch, err := jjClient.DefaultBranch(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect default branch: %w", err)
	}

	remotes, err := jjClient.Remotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list git remotes: %w", err)
	}

	changeGraph, err := graph.Build(ctx, jjClient)
	if err != nil {
		return fmt.Errorf("failed to build change graph: %w", err)
	}

	fmt.Printf("Default branch: %s\n", defaultBranch)
	for _, remote := range remotes {
		repo := ""
		if ref, err := jj.ParseRemoteURL(remote.URL); err == nil {
			repo = fmt.Sprintf(" (%s)", ref)
		}
		fmt.Printf("Remote: %s %s%s\n", remote.Name, remote.URL, repo)
	}

	if len(changeGraph.Stacks) == 0 {
		fmt.Println("\nNo bookmark stacks found.")
		return nil
	}

	choices := internal.CollectStackChoices(changeGraph)
	fmt.Printf("\nStacks (%d found):\n", len(choices))
	for _, choice := range choices {
		fmt.Printf("  %s\n", choice)
	}

	if changeGraph.ExcludedBookmarks > 0 {
		fmt.Printf("\n  (%d bookmark(s) excluded due to merge commits)\n", changeGraph.ExcludedBookmarks)
	}

	if len(changeGraph.ConflictedBookmarks) > 0 {
		fmt.Printf("\n  (%d conflicted bookmark(s) skipped: %s)\n",
			len(changeGraph.ConflictedBookmarks), strings.Join(changeGraph.ConflictedBookmarks, ", "))
	}

	return nil
}
