package submit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codefloe.com/pat-s/stacker/pkg/forge"
)

// Pusher pushes bookmarks to a remote. *jj.Client satisfies it.
type Pusher interface {
	PushBookmark(ctx context.Context, bookmark, remote string) error
}

// ActionKind names one kind of executed action.
type ActionKind string

const (
	ActionPush     ActionKind = "push"
	ActionCreatePR ActionKind = "create-pr"
	ActionRetarget ActionKind = "retarget"
	ActionComment  ActionKind = "comment"
)

// ActionStatus is the outcome of one action.
type ActionStatus string

const (
	StatusSuccess ActionStatus = "success"
	StatusFailed  ActionStatus = "failed"
	StatusSkipped ActionStatus = "skipped"
)

// ActionResult records the outcome of one executed action.
type ActionResult struct {
	Kind     ActionKind
	Bookmark string
	PR       int
	URL      string
	Status   ActionStatus
	Err      error
}

// Result is the phase 3 output: the stack entries for all PRs that
// exist after execution, plus per-action outcomes.
type Result struct {
	Entries []forge.StackEntry
	Actions []ActionResult
}

// Failed counts the actions that failed.
func (r *Result) Failed() int {
	n := 0
	for _, a := range r.Actions {
		if a.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Execute runs the plan: pushes run concurrently, then base updates run
// concurrently, then PR creations run sequentially from trunk to leaf,
// and finally stack comments are upserted concurrently on every PR in
// the stack. A failed push skips that segment's later actions; a failed
// creation skips the remaining creations. Execution keeps going across
// independent failures and reports them in the returned Result.
func Execute(ctx context.Context, plan *Plan, pusher Pusher, f forge.Forge) (*Result, error) {
	result := &Result{}
	pushFailed := make([]bool, len(plan.Segments))

	// Step 1: push all bookmarks.
	pushResults := make([]*ActionResult, len(plan.Segments))
	g, gctx := errgroup.WithContext(ctx)
	for i, sp := range plan.Segments {
		if !sp.Push {
			continue
		}
		g.Go(func() error {
			ar := &ActionResult{Kind: ActionPush, Bookmark: sp.Bookmark, Status: StatusSuccess}
			if err := pusher.PushBookmark(gctx, sp.Bookmark, plan.Remote); err != nil {
				ar.Status = StatusFailed
				ar.Err = fmt.Errorf("failed to push bookmark %s: %w", sp.Bookmark, err)
				pushFailed[i] = true
			}
			pushResults[i] = ar
			return nil
		})
	}
	_ = g.Wait()
	for _, ar := range pushResults {
		if ar != nil {
			result.Actions = append(result.Actions, *ar)
		}
	}

	// Step 2: retarget existing PRs.
	retargetResults := make([]*ActionResult, len(plan.Segments))
	g, gctx = errgroup.WithContext(ctx)
	for i, sp := range plan.Segments {
		if !sp.UpdateBase {
			continue
		}
		g.Go(func() error {
			ar := &ActionResult{Kind: ActionRetarget, Bookmark: sp.Bookmark, PR: sp.Existing.Number}
			switch {
			case pushFailed[i]:
				ar.Status = StatusSkipped
			default:
				if err := f.UpdatePRBase(gctx, sp.Existing.Number, sp.Base); err != nil {
					ar.Status = StatusFailed
					ar.Err = fmt.Errorf("failed to update base of PR #%d: %w", sp.Existing.Number, err)
				} else {
					ar.Status = StatusSuccess
				}
			}
			retargetResults[i] = ar
			return nil
		})
	}
	_ = g.Wait()
	for _, ar := range retargetResults {
		if ar != nil {
			result.Actions = append(result.Actions, *ar)
		}
	}

	// Step 3: create missing PRs from trunk to leaf. Later creations
	// depend on earlier heads existing, so these stay sequential and
	// stop handing out new PRs after the first failure.
	created := make([]*forge.PullRequest, len(plan.Segments))
	createFailed := false
	for i, sp := range plan.Segments {
		if !sp.Create {
			continue
		}

		ar := ActionResult{Kind: ActionCreatePR, Bookmark: sp.Bookmark}
		switch {
		case pushFailed[i] || createFailed:
			ar.Status = StatusSkipped
		default:
			pr, err := f.CreatePR(ctx, forge.CreatePROptions{
				Title: sp.Title,
				Head:  sp.Bookmark,
				Base:  sp.Base,
				Body:  sp.Body,
				Draft: plan.Draft,
			})
			if err != nil {
				ar.Status = StatusFailed
				ar.Err = fmt.Errorf("failed to create PR for %s: %w", sp.Bookmark, err)
				createFailed = true
			} else {
				ar.Status = StatusSuccess
				ar.PR = pr.Number
				ar.URL = pr.URL
				created[i] = pr
				log.Debug().Str("bookmark", sp.Bookmark).Int("pr", pr.Number).Msg("created PR")
			}
		}
		result.Actions = append(result.Actions, ar)
	}

	// Collect stack entries for every segment that has a PR.
	for i, sp := range plan.Segments {
		pr := sp.Existing
		if created[i] != nil {
			pr = created[i]
		}
		if pr == nil {
			continue
		}
		result.Entries = append(result.Entries, forge.StackEntry{
			Bookmark: sp.Bookmark,
			PRURL:    pr.URL,
			PRNumber: pr.Number,
			Merged:   pr.State == forge.PRStateMerged,
		})
	}

	// Step 4: upsert the stack comment on every PR in the stack.
	data := forge.StackCommentData{Stack: result.Entries}
	commentResults := make([]*ActionResult, len(result.Entries))
	g, gctx = errgroup.WithContext(ctx)
	for i, entry := range result.Entries {
		g.Go(func() error {
			ar := &ActionResult{Kind: ActionComment, Bookmark: entry.Bookmark, PR: entry.PRNumber}
			if err := upsertStackComment(gctx, f, data, i); err != nil {
				ar.Status = StatusFailed
				ar.Err = err
			} else {
				ar.Status = StatusSuccess
			}
			commentResults[i] = ar
			return nil
		})
	}
	_ = g.Wait()
	for _, ar := range commentResults {
		if ar != nil {
			result.Actions = append(result.Actions, *ar)
		}
	}

	if failed := result.Failed(); failed > 0 {
		return result, fmt.Errorf("%d submission action(s) failed", failed)
	}
	return result, nil
}

// upsertStackComment writes the stack comment for the PR at index in
// data.Stack, updating the existing comment when one is found.
func upsertStackComment(ctx context.Context, f forge.Forge, data forge.StackCommentData, index int) error {
	number := data.Stack[index].PRNumber
	body := forge.FormatStackComment(data, index)

	comments, err := f.ListComments(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to list comments on PR #%d: %w", number, err)
	}

	if existing := forge.FindStackComment(comments); existing != nil {
		if err := f.UpdateComment(ctx, existing.ID, body); err != nil {
			return fmt.Errorf("failed to update stack comment on PR #%d: %w", number, err)
		}
		return nil
	}

	if _, err := f.CreateComment(ctx, number, body); err != nil {
		return fmt.Errorf("failed to create stack comment on PR #%d: %w", number, err)
	}
	return nil
}
