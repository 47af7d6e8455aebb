package submit

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codefloe.com/pat-s/stacker/pkg/forge"
	"codefloe.com/pat-s/stacker/pkg/graph"
)

// SegmentPlan is the planned set of actions for one bookmark.
type SegmentPlan struct {
	// Bookmark is the segment's primary bookmark name.
	Bookmark string
	// Base is the branch this PR targets: the default branch for the
	// bottom of the stack, otherwise the previous segment's bookmark.
	Base string
	// Title for a new PR, from the first line of the newest commit.
	Title string
	// Body for a new PR, derived from the commit descriptions. Bodies
	// of existing PRs are never touched.
	Body string
	// Existing is the PR already open (or closed) for this bookmark.
	Existing *forge.PullRequest
	// Push reports that the bookmark should be pushed.
	Push bool
	// Create reports that a new PR must be created.
	Create bool
	// UpdateBase reports that the existing PR must be retargeted.
	UpdateBase bool
	// Skip marks segments whose PR is closed or merged. They keep
	// their place in the stack comment but receive no pushes or
	// updates.
	Skip bool
}

// Plan is the phase 2 output: per-segment plans ordered trunk-to-leaf.
type Plan struct {
	Segments []SegmentPlan
	Remote   string
	Draft    bool
}

// BuildPlan queries the forge for each analyzed segment and decides
// which actions are needed. PR lookups run concurrently.
func BuildPlan(ctx context.Context, analysis *Analysis, f forge.Forge, remote string, draft bool) (*Plan, error) {
	plans := make([]SegmentPlan, len(analysis.Segments))
	existing := make([]*forge.PullRequest, len(analysis.Segments))

	g, gctx := errgroup.WithContext(ctx)
	for i, seg := range analysis.Segments {
		name := seg.Name()
		if name == "" {
			return nil, fmt.Errorf("segment %s has no bookmark name", seg.ChangeID)
		}
		g.Go(func() error {
			pr, err := f.FindPRByHead(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to check for existing PR for %s: %w", name, err)
			}
			existing[i] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, seg := range analysis.Segments {
		base := analysis.DefaultBranch
		if i > 0 {
			base = analysis.Segments[i-1].Name()
		}

		pr := existing[i]
		skip := pr != nil && pr.State != forge.PRStateOpen

		plans[i] = SegmentPlan{
			Bookmark:   seg.Name(),
			Base:       base,
			Title:      prTitle(seg),
			Body:       prBody(seg),
			Existing:   pr,
			Push:       !skip,
			Create:     pr == nil,
			UpdateBase: pr != nil && !skip && pr.BaseRef != base,
			Skip:       skip,
		}

		if skip {
			log.Debug().Str("bookmark", seg.Name()).Int("pr", pr.Number).Str("state", string(pr.State)).
				Msg("skipping segment with inactive PR")
		}
	}

	return &Plan{Segments: plans, Remote: remote, Draft: draft}, nil
}

// prTitle derives the PR title from the first line of the segment's
// newest commit description, falling back to the bookmark name for
// empty descriptions.
func prTitle(seg graph.BookmarkSegment) string {
	if len(seg.Commits) > 0 {
		first, _, _ := strings.Cut(seg.Commits[0].Description, "\n")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return seg.Name()
}

// prBody derives the PR body. A single-commit segment uses the
// description minus its first line. A multi-commit segment joins each
// commit's full description with a separator, newest first.
func prBody(seg graph.BookmarkSegment) string {
	if len(seg.Commits) == 1 {
		_, rest, _ := strings.Cut(seg.Commits[0].Description, "\n")
		return strings.TrimSpace(rest)
	}

	parts := make([]string, 0, len(seg.Commits))
	for _, c := range seg.Commits {
		if desc := strings.TrimSpace(c.Description); desc != "" {
			parts = append(parts, desc)
		}
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// String renders the plan for dry-run output.
func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Submission plan (%d bookmark(s), remote: %s):\n", len(p.Segments), p.Remote)

	for _, sp := range p.Segments {
		fmt.Fprintf(&b, "  %s (base: %s)\n", sp.Bookmark, sp.Base)
		if sp.Skip {
			fmt.Fprintf(&b, "    - skip: PR #%d is %s\n", sp.Existing.Number, sp.Existing.State)
			continue
		}
		if sp.Push {
			fmt.Fprintf(&b, "    - push bookmark to %s\n", p.Remote)
		}
		if sp.Create {
			fmt.Fprintf(&b, "    - create PR: %q\n", sp.Title)
		}
		if sp.UpdateBase {
			fmt.Fprintf(&b, "    - update PR #%d base: %s -> %s\n", sp.Existing.Number, sp.Existing.BaseRef, sp.Base)
		}
		if !sp.Create && !sp.UpdateBase && sp.Existing != nil {
			fmt.Fprintf(&b, "    - PR #%d up to date\n", sp.Existing.Number)
		}
	}

	return b.String()
}
