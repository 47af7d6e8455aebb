package submit

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"codefloe.com/pat-s/stacker/cli/internal"
	"codefloe.com/pat-s/stacker/pkg/graph"
	"codefloe.com/pat-s/stacker/shared/logger"
)

// resolveBookmarkInteractively picks a bookmark via a two-stage prompt:
// first the stack, then the bookmark within it. A single bookmark across
// all stacks is auto-selected; stage 1 is skipped when only one stack
// exists. Returns "" when there is nothing to submit.
func resolveBookmarkInteractively(g *graph.ChangeGraph) (string, error) {
	if len(g.Stacks) == 0 {
		fmt.Println("No bookmark stacks found.")
		return "", nil
	}

	totalBookmarks := 0
	for _, stack := range g.Stacks {
		totalBookmarks += len(stack.Segments)
	}

	if totalBookmarks == 1 {
		choice := internal.CollectBookmarkChoices(g.Stacks[0])[0]
		summary := "(no description)"
		if len(choice.CommitSummaries) > 0 {
			summary = choice.CommitSummaries[0]
		}
		fmt.Printf("Auto-selecting the only bookmark: %s (%s)\n", choice.Bookmark, summary)
		return choice.Bookmark, nil
	}

	if !logger.IsInteractive() {
		return "", errNotInteractive
	}

	stackIndex := 0
	if len(g.Stacks) > 1 {
		var err error
		stackIndex, err = selectStack(internal.CollectStackChoices(g))
		if err != nil {
			return "", err
		}
	}

	return selectBookmarkInStack(internal.CollectBookmarkChoices(g.Stacks[stackIndex]))
}

func selectStack(choices []internal.StackChoice) (int, error) {
	options := make([]huh.Option[int], 0, len(choices))
	for _, choice := range choices {
		options = append(options, huh.NewOption(choice.String(), choice.StackIndex))
	}

	var stackIndex int
	err := huh.NewSelect[int]().
		Title("Which stack?").
		Options(options...).
		Value(&stackIndex).
		Run()
	if err != nil {
		return 0, err
	}

	return stackIndex, nil
}

func selectBookmarkInStack(choices []internal.BookmarkChoice) (string, error) {
	options := make([]huh.Option[string], 0, len(choices))
	for _, choice := range choices {
		options = append(options, huh.NewOption(choice.String(), choice.Bookmark))
	}

	var bookmark string
	err := huh.NewSelect[string]().
		Title("Submit up to which bookmark?").
		Description("All bookmarks from base up to your selection will be submitted").
		Options(options...).
		Value(&bookmark).
		Run()
	if err != nil {
		return "", err
	}

	return bookmark, nil
}
