package graph

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"codefloe.com/pat-s/stacker/pkg/jj"
)

// Source provides the jj reads the builder needs. *jj.Client satisfies
// it; tests substitute fakes.
type Source interface {
	MyBookmarks(ctx context.Context) (bookmarks []jj.Bookmark, conflicted []string, err error)
	LogPage(ctx context.Context, head, cursor string) ([]jj.LogEntry, error)
}

// traversal is the outcome of walking from one bookmark toward trunk.
type traversal struct {
	// segments are ordered newest-first (leaf toward trunk).
	segments []BookmarkSegment
	// alreadySeen is the change ID of an already-collected bookmark the
	// walk stopped at, or empty if the walk reached trunk.
	alreadySeen string
	// excluded reports that a merge commit tainted this bookmark.
	excluded bool
}

// Build constructs the complete change graph from the current repo
// state. It discovers the user's bookmarks, walks each toward trunk to
// find segments, connects consecutive segments in the adjacency map,
// excludes bookmarks whose history contains a merge commit, and groups
// the surviving segments into stacks.
func Build(ctx context.Context, src Source) (*ChangeGraph, error) {
	bookmarks, conflicted, err := src.MyBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	// Traversal filters out bookmarks on commits that belong to other
	// users.
	userNames := make(map[string]bool, len(bookmarks))
	for _, b := range bookmarks {
		userNames[b.Name] = true
	}

	g := &ChangeGraph{
		Adjacency:           make(map[string]string),
		Leaves:              make(map[string]bool),
		Roots:               make(map[string]bool),
		Segments:            make(map[string]BookmarkSegment),
		TaintedChangeIDs:    make(map[string]bool),
		TaintedBookmarks:    make(map[string]bool),
		ConflictedBookmarks: conflicted,
	}

	collected := make(map[string]bool)

	for _, bookmark := range bookmarks {
		if collected[bookmark.Name] {
			continue
		}

		result, err := walk(ctx, src, bookmark, collected, g.TaintedChangeIDs, userNames)
		if err != nil {
			return nil, err
		}

		if result.excluded {
			g.ExcludedBookmarks++
			g.TaintedBookmarks[bookmark.Name] = true
			log.Debug().Str("bookmark", bookmark.Name).Msg("bookmark excluded by merge commit")
			continue
		}

		for _, seg := range result.segments {
			for _, name := range seg.BookmarkNames {
				collected[name] = true
			}
		}

		// Consecutive segments are child -> parent; result.segments is
		// ordered newest-first.
		for i := 0; i+1 < len(result.segments); i++ {
			g.Adjacency[result.segments[i].ChangeID] = result.segments[i+1].ChangeID
		}

		if len(result.segments) > 0 {
			last := result.segments[len(result.segments)-1]
			if result.alreadySeen != "" {
				g.Adjacency[last.ChangeID] = result.alreadySeen
			} else {
				g.Roots[last.ChangeID] = true
			}
		}

		for _, seg := range result.segments {
			g.Segments[seg.ChangeID] = seg
		}
	}

	// Leaves are segments nothing points to as parent.
	parents := make(map[string]bool, len(g.Adjacency))
	for _, parent := range g.Adjacency {
		parents[parent] = true
	}
	for id := range g.Segments {
		if !parents[id] {
			g.Leaves[id] = true
		}
	}

	g.Stacks = buildStacks(g.Leaves, g.Adjacency, g.Segments)

	log.Debug().
		Int("segments", len(g.Segments)).
		Int("stacks", len(g.Stacks)).
		Int("excluded", g.ExcludedBookmarks).
		Msg("built change graph")

	return g, nil
}

// walk traverses from a bookmark toward trunk, discovering segments
// along the way. Commits are fetched in pages; a short page ends the
// walk. The walk also stops when it reaches a commit whose bookmark was
// already collected, and aborts with excluded=true when it encounters a
// merge commit or an already-tainted change.
func walk(
	ctx context.Context,
	src Source,
	bookmark jj.Bookmark,
	collected map[string]bool,
	tainted map[string]bool,
	userNames map[string]bool,
) (traversal, error) {
	var (
		segments    []BookmarkSegment
		current     *BookmarkSegment
		cursor      string
		alreadySeen string
		seenIDs     []string
	)

pages:
	for {
		entries, err := src.LogPage(ctx, bookmark.CommitID, cursor)
		if err != nil {
			return traversal{}, fmt.Errorf("failed to walk from bookmark %s: %w", bookmark.Name, err)
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			seenIDs = append(seenIDs, entry.ChangeID)

			if len(entry.Parents) > 1 || tainted[entry.ChangeID] {
				for _, id := range seenIDs {
					tainted[id] = true
				}
				return traversal{excluded: true}, nil
			}

			var userBookmarks []string
			for _, name := range entry.LocalBookmarks {
				if userNames[name] {
					userBookmarks = append(userBookmarks, name)
				}
			}

			// A commit with user bookmarks starts a new segment.
			if len(userBookmarks) > 0 {
				if current != nil {
					segments = append(segments, *current)
					current = nil
				}

				for _, name := range userBookmarks {
					if collected[name] {
						alreadySeen = entry.ChangeID
						break pages
					}
				}

				current = &BookmarkSegment{
					BookmarkNames: userBookmarks,
					ChangeID:      entry.ChangeID,
				}
			}

			if current == nil {
				// The first entry of trunk()..bookmark is the bookmark
				// commit itself, so this indicates inconsistent state.
				return traversal{}, fmt.Errorf(
					"encountered change %s before any bookmark while walking from %s",
					entry.ChangeID, bookmark.Name,
				)
			}

			current.Commits = append(current.Commits, Commit{
				CommitID:    entry.CommitID,
				ChangeID:    entry.ChangeID,
				Description: entry.Description,
				Author:      entry.AuthorName,
				Timestamp:   entry.Timestamp,
			})
		}

		if len(entries) < jj.LogPageSize {
			break
		}
		cursor = entries[len(entries)-1].CommitID
	}

	if current != nil {
		segments = append(segments, *current)
	}

	return traversal{segments: segments, alreadySeen: alreadySeen}, nil
}
