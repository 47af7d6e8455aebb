// Package submit implements the three-phase submission pipeline:
// analyze the change graph, plan forge actions, execute the plan.
// Existing PRs are updated idempotently.
package submit

import (
	"fmt"

	"codefloe.com/pat-s/stacker/pkg/graph"
)

// Analysis is the phase 1 output: the segments relevant to one
// submission, ordered trunk-to-leaf with the target bookmark last, and
// the default branch the stack ultimately lands on.
type Analysis struct {
	Segments      []graph.BookmarkSegment
	DefaultBranch string
}

// NotFoundError reports a target bookmark that is not part of any
// stack.
type NotFoundError struct {
	Bookmark string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bookmark %q not found in any stack", e.Bookmark)
}

// TaintedError reports a target bookmark that was excluded because a
// merge commit sits in its history.
type TaintedError struct {
	Bookmark string
}

func (e *TaintedError) Error() string {
	return fmt.Sprintf("bookmark %q has a merge commit in its history and cannot be submitted", e.Bookmark)
}

// Analyze locates the stack containing the target bookmark and returns
// all segments from trunk to the target, inclusive.
func Analyze(target string, g *graph.ChangeGraph, defaultBranch string) (*Analysis, error) {
	if g.TaintedBookmarks[target] {
		return nil, &TaintedError{Bookmark: target}
	}

	for _, stack := range g.Stacks {
		for i, seg := range stack.Segments {
			if !containsName(seg.BookmarkNames, target) {
				continue
			}
			segments := make([]graph.BookmarkSegment, i+1)
			copy(segments, stack.Segments[:i+1])
			return &Analysis{
				Segments:      segments,
				DefaultBranch: defaultBranch,
			}, nil
		}
	}

	return nil, &NotFoundError{Bookmark: target}
}

func containsName(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}
