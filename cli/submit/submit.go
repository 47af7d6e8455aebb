// Package submit provides the submit command for stacked pull requests.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"codefloe.com/pat-s/stacker/cli/internal"
	"codefloe.com/pat-s/stacker/pkg/graph"
	"codefloe.com/pat-s/stacker/pkg/submit"
	"codefloe.com/pat-s/stacker/shared/logger"
)

// Command is the submit command.
var Command = &cli.Command{
	Name:      "submit",
	Usage:     "submit a bookmark and its stack as pull requests",
	ArgsUsage: "[bookmark]",
	Action:    submitBookmark,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "show what would be done without making changes",
		},
		&cli.BoolFlag{
			Name:  "draft",
			Usage: "create new pull requests as drafts",
		},
	},
}

func submitBookmark(ctx context.Context, c *cli.Command) error {
	service, err := internal.CreateService(ctx, c)
	if err != nil {
		return err
	}

	log.Debug().Str("remote", service.Remote).Str("repo", service.Repo.String()).Msg("building change graph")

	changeGraph, err := graph.Build(ctx, service.JJ)
	if err != nil {
		return fmt.Errorf("failed to build change graph: %w", err)
	}

	defaultBranch, err := service.DefaultBranch(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect default branch: %w", err)
	}

	// Resolve bookmark: explicit argument or interactive selection.
	bookmark := c.Args().First()
	if bookmark == "" {
		bookmark, err = resolveBookmarkInteractively(changeGraph)
		if err != nil {
			return err
		}
		if bookmark == "" {
			return nil
		}
	}

	// Phase 1: analyze.
	analysis, err := submit.Analyze(bookmark, changeGraph, defaultBranch)
	if err != nil {
		return err
	}

	// Phase 2: plan.
	draft := c.Bool("draft") || service.Config.Draft
	plan, err := submit.BuildPlan(ctx, analysis, service.Forge, service.Remote, draft)
	if err != nil {
		return err
	}

	if c.Bool("dry-run") {
		fmt.Println("DRY RUN - no changes will be made.")
		fmt.Println()
		fmt.Print(plan)
		return nil
	}

	fmt.Print(plan)

	if logger.IsInteractive() && !logger.IsCI() {
		var proceed bool
		err := huh.NewConfirm().
			Title("Proceed with submission?").
			Affirmative("Yes").
			Negative("No").
			Value(&proceed).
			Run()
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}
	}

	// Phase 3: execute.
	result, err := submit.Execute(ctx, plan, service.JJ, service.Forge)
	if err != nil {
		reportFailures(result)
		return err
	}

	fmt.Printf("\nSubmitted %d bookmark(s).\n", len(result.Entries))
	return nil
}

func reportFailures(result *submit.Result) {
	if result == nil {
		return
	}
	for _, action := range result.Actions {
		if action.Status != submit.StatusFailed {
			continue
		}
		fmt.Printf("  %s %s: %v\n", action.Kind, action.Bookmark, action.Err)
	}
}

// errNotInteractive is returned when a bookmark must be picked but
// stdin is not a terminal.
var errNotInteractive = errors.New("no bookmark given and not running in a terminal (pass a bookmark name)")
