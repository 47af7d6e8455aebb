// Package graph builds the change graph from jj output: bookmark
// segments, their stacking relationships, and the resulting branch
// stacks used for PR submission.
package graph

import (
	"time"
)

// Commit is a single commit inside a bookmark segment, carrying the
// metadata needed for display and PR creation.
type Commit struct {
	CommitID    string
	ChangeID    string
	Description string
	Author      string
	Timestamp   time.Time
}

// BookmarkSegment is a group of consecutive commits belonging to one or
// more bookmarks. When multiple bookmarks point at the same change they
// share one segment. Commits are ordered newest-first; the first commit
// is the one the bookmarks point at.
type BookmarkSegment struct {
	BookmarkNames []string
	ChangeID      string
	Commits       []Commit
}

// Name returns the segment's primary bookmark name.
func (s BookmarkSegment) Name() string {
	if len(s.BookmarkNames) == 0 {
		return ""
	}
	return s.BookmarkNames[0]
}

// BranchStack is a complete path from trunk to a leaf bookmark.
// Segments are ordered bottom-to-top: the first segment is closest to
// trunk, the last is the leaf.
type BranchStack struct {
	Segments []BookmarkSegment
}

// ChangeGraph is the complete picture of the user's bookmarked changes:
// all segments, their relationships, and the resulting stacks.
type ChangeGraph struct {
	// Adjacency maps child change ID to parent change ID (toward
	// trunk). Each entry is a stacking relationship between two
	// bookmarked changes.
	Adjacency map[string]string

	// Leaves holds the change IDs no other segment points to as
	// parent. Each leaf defines one stack.
	Leaves map[string]bool

	// Roots holds the change IDs closest to trunk, with no parent in
	// the adjacency map.
	Roots map[string]bool

	// Segments maps change ID to its segment.
	Segments map[string]BookmarkSegment

	// TaintedChangeIDs holds merge commits and their descendants,
	// excluded from stacking.
	TaintedChangeIDs map[string]bool

	// TaintedBookmarks holds the names of bookmarks excluded because a
	// merge commit sits in their history.
	TaintedBookmarks map[string]bool

	// ExcludedBookmarks counts the bookmarks dropped due to merge
	// commits.
	ExcludedBookmarks int

	// ConflictedBookmarks lists bookmarks without a resolvable target.
	ConflictedBookmarks []string

	// Stacks holds one complete stack per leaf, ordered trunk-to-leaf.
	Stacks []BranchStack
}
