package internal

import (
	"fmt"
	"strings"

	"codefloe.com/pat-s/stacker/pkg/graph"
)

// StackChoice is one stack rendered as a single selectable line.
type StackChoice struct {
	// StackIndex is the index into ChangeGraph.Stacks.
	StackIndex int
	// BookmarkNames in trunk-to-leaf order.
	BookmarkNames []string
	// CommitCount is the total number of commits across all segments.
	CommitCount int
	// SharedWith lists bookmarks this stack shares with other stacks.
	SharedWith []SharedSegment
	// LeafSummary is the first commit summary of the leaf segment.
	LeafSummary string
}

// SharedSegment marks a bookmark that also appears in other stacks.
type SharedSegment struct {
	Bookmark    string
	OtherLeaves []string
}

func (sc StackChoice) String() string {
	var b strings.Builder

	chain := strings.Join(sc.BookmarkNames, " ← ")
	b.WriteString("○ ← ")
	b.WriteString(chain)

	if len(sc.BookmarkNames) == 1 {
		fmt.Fprintf(&b, "  (1 PR: %s)", sc.LeafSummary)
	} else {
		fmt.Fprintf(&b, "  (%d PRs)", len(sc.BookmarkNames))
	}

	for _, shared := range sc.SharedWith {
		fmt.Fprintf(&b, "  [%s also in %s]", shared.Bookmark, strings.Join(shared.OtherLeaves, ", "))
	}

	return b.String()
}

// BookmarkChoice is one bookmark within a stack.
type BookmarkChoice struct {
	// Bookmark is the segment's primary bookmark name.
	Bookmark string
	// SegmentIndex is the position in the stack (0 = closest to trunk).
	SegmentIndex int
	// StackLen is the total number of segments in the stack.
	StackLen int
	// CommitSummaries holds the first line of each commit description.
	CommitSummaries []string
}

func (bc BookmarkChoice) String() string {
	position := ""
	switch {
	case bc.StackLen <= 1:
	case bc.SegmentIndex == bc.StackLen-1:
		position = "leaf, "
	case bc.SegmentIndex == 0:
		position = "base, "
	}

	commitLabel := "commits"
	if len(bc.CommitSummaries) == 1 {
		commitLabel = "commit"
	}

	prCount := bc.SegmentIndex + 1
	prLabel := "PRs"
	if prCount == 1 {
		prLabel = "PR"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s%d %s) → %d %s",
		bc.Bookmark, position, len(bc.CommitSummaries), commitLabel, prCount, prLabel)

	for _, summary := range bc.CommitSummaries {
		b.WriteString("\n    ")
		b.WriteString(summary)
	}

	return b.String()
}

// CollectStackChoices builds one choice per stack, detecting segments
// shared between stacks.
func CollectStackChoices(g *graph.ChangeGraph) []StackChoice {
	if len(g.Stacks) == 0 {
		return nil
	}

	// For each change ID, collect the stacks containing it.
	changeToStacks := make(map[string][]int)
	for stackIdx, stack := range g.Stacks {
		for _, seg := range stack.Segments {
			changeToStacks[seg.ChangeID] = append(changeToStacks[seg.ChangeID], stackIdx)
		}
	}

	leafNames := make([]string, len(g.Stacks))
	for i, stack := range g.Stacks {
		leafNames[i] = segmentName(stack.Segments[len(stack.Segments)-1])
	}

	choices := make([]StackChoice, 0, len(g.Stacks))
	for stackIdx, stack := range g.Stacks {
		names := make([]string, 0, len(stack.Segments))
		commitCount := 0
		var sharedWith []SharedSegment

		for _, seg := range stack.Segments {
			names = append(names, segmentName(seg))
			commitCount += len(seg.Commits)

			var otherLeaves []string
			for _, other := range changeToStacks[seg.ChangeID] {
				if other != stackIdx {
					otherLeaves = append(otherLeaves, leafNames[other])
				}
			}
			if len(otherLeaves) > 0 {
				sharedWith = append(sharedWith, SharedSegment{
					Bookmark:    segmentName(seg),
					OtherLeaves: otherLeaves,
				})
			}
		}

		leaf := stack.Segments[len(stack.Segments)-1]
		choices = append(choices, StackChoice{
			StackIndex:    stackIdx,
			BookmarkNames: names,
			CommitCount:   commitCount,
			SharedWith:    sharedWith,
			LeafSummary:   segmentSummary(leaf),
		})
	}

	return choices
}

// CollectBookmarkChoices builds one choice per segment, leaf-first.
func CollectBookmarkChoices(stack graph.BranchStack) []BookmarkChoice {
	choices := make([]BookmarkChoice, 0, len(stack.Segments))
	for i := len(stack.Segments) - 1; i >= 0; i-- {
		seg := stack.Segments[i]

		summaries := make([]string, 0, len(seg.Commits))
		for _, c := range seg.Commits {
			summaries = append(summaries, commitSummary(c.Description))
		}

		choices = append(choices, BookmarkChoice{
			Bookmark:        segmentName(seg),
			SegmentIndex:    i,
			StackLen:        len(stack.Segments),
			CommitSummaries: summaries,
		})
	}
	return choices
}

func segmentName(seg graph.BookmarkSegment) string {
	if name := seg.Name(); name != "" {
		return name
	}
	return "(unnamed)"
}

// segmentSummary is the first line of the segment's newest commit.
func segmentSummary(seg graph.BookmarkSegment) string {
	if len(seg.Commits) == 0 {
		return "(no description)"
	}
	return commitSummary(seg.Commits[0].Description)
}

func commitSummary(description string) string {
	first, _, _ := strings.Cut(description, "\n")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return "(no description)"
}
