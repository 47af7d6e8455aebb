package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
)

// GitHub implements the Forge interface for GitHub.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHub creates a new GitHub forge client bound to one repository.
func NewGitHub(token, owner, repo string) *GitHub {
	var client *github.Client

	if token != "" {
		client = github.NewClient(nil).WithAuthToken(token)
	} else {
		client = github.NewClient(nil)
	}

	return &GitHub{client: client, owner: owner, repo: repo}
}

// Name returns the name of the forge.
func (g *GitHub) Name() string {
	return "github"
}

// AuthenticatedUser returns the login of the authenticated user.
func (g *GitHub) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return "", mapGitHubError("failed to get authenticated user", err)
	}
	return user.GetLogin(), nil
}

// FindPRByHead finds the PR whose head branch matches the given branch
// name. Listing uses state "all" so merged and closed PRs are visible;
// an open PR wins when several exist.
func (g *GitHub) FindPRByHead(ctx context.Context, head string) (*PullRequest, error) {
	const maxPRsPerPage = 100
	opts := &github.PullRequestListOptions{
		State: "all",
		// GitHub requires head in "owner:branch" format.
		Head: fmt.Sprintf("%s:%s", g.owner, head),
		ListOptions: github.ListOptions{
			PerPage: maxPRsPerPage,
		},
	}

	prs, _, err := g.client.PullRequests.List(ctx, g.owner, g.repo, opts)
	if err != nil {
		return nil, mapGitHubError(fmt.Sprintf("failed to list PRs for head %s", head), err)
	}

	var found *PullRequest
	for _, pr := range prs {
		candidate := githubPR(pr)
		if candidate.State == PRStateOpen {
			return candidate, nil
		}
		if found == nil {
			found = candidate
		}
	}

	return found, nil
}

// CreatePR creates a new pull request.
func (g *GitHub) CreatePR(ctx context.Context, opts CreatePROptions) (*PullRequest, error) {
	newPR := &github.NewPullRequest{
		Title: github.Ptr(opts.Title),
		Body:  github.Ptr(opts.Body),
		Head:  github.Ptr(opts.Head),
		Base:  github.Ptr(opts.Base),
		Draft: github.Ptr(opts.Draft),
	}

	pr, _, err := g.client.PullRequests.Create(ctx, g.owner, g.repo, newPR)
	if err != nil {
		return nil, mapGitHubError(fmt.Sprintf("failed to create PR for %s", opts.Head), err)
	}

	return githubPR(pr), nil
}

// UpdatePRBase retargets an existing PR onto a new base branch.
func (g *GitHub) UpdatePRBase(ctx context.Context, number int, base string) error {
	update := &github.PullRequest{
		Base: &github.PullRequestBranch{Ref: github.Ptr(base)},
	}

	_, _, err := g.client.PullRequests.Edit(ctx, g.owner, g.repo, number, update)
	if err != nil {
		return mapGitHubError(fmt.Sprintf("failed to update base of PR #%d", number), err)
	}
	return nil
}

// ListComments lists all comments on a PR.
func (g *GitHub) ListComments(ctx context.Context, number int) ([]Comment, error) {
	comments, _, err := g.client.Issues.ListComments(ctx, g.owner, g.repo, number, nil)
	if err != nil {
		return nil, mapGitHubError(fmt.Sprintf("failed to list comments on PR #%d", number), err)
	}

	result := make([]Comment, 0, len(comments))
	for _, c := range comments {
		result = append(result, Comment{ID: c.GetID(), Body: c.GetBody()})
	}
	return result, nil
}

// CreateComment adds a comment to a PR.
func (g *GitHub) CreateComment(ctx context.Context, number int, body string) (*Comment, error) {
	comment, _, err := g.client.Issues.CreateComment(ctx, g.owner, g.repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, mapGitHubError(fmt.Sprintf("failed to comment on PR #%d", number), err)
	}
	return &Comment{ID: comment.GetID(), Body: comment.GetBody()}, nil
}

// UpdateComment replaces the body of an existing comment.
func (g *GitHub) UpdateComment(ctx context.Context, commentID int64, body string) error {
	_, _, err := g.client.Issues.EditComment(ctx, g.owner, g.repo, commentID, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return mapGitHubError(fmt.Sprintf("failed to update comment %d", commentID), err)
	}
	return nil
}

// DefaultBranch returns the repository's default branch name.
func (g *GitHub) DefaultBranch(ctx context.Context) (string, error) {
	repo, _, err := g.client.Repositories.Get(ctx, g.owner, g.repo)
	if err != nil {
		return "", mapGitHubError("failed to get repository", err)
	}

	branch := repo.GetDefaultBranch()
	if branch == "" {
		return "", &Error{Kind: KindAPI, Message: "repository has no default branch"}
	}
	return branch, nil
}

func githubPR(pr *github.PullRequest) *PullRequest {
	state := PRStateOpen
	switch {
	case pr.GetMerged() || !pr.GetMergedAt().IsZero():
		state = PRStateMerged
	case pr.GetState() == "closed":
		state = PRStateClosed
	}

	return &PullRequest{
		Number:  pr.GetNumber(),
		URL:     pr.GetHTMLURL(),
		Title:   pr.GetTitle(),
		HeadRef: pr.GetHead().GetRef(),
		BaseRef: pr.GetBase().GetRef(),
		State:   state,
	}
}

func mapGitHubError(message string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &Error{Kind: KindRateLimit, Message: message, Err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &Error{Kind: KindRateLimit, Message: message, Err: err}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &Error{Kind: KindAuth, Message: message, Err: err}
		case http.StatusNotFound:
			return &Error{Kind: KindNotFound, Message: message, Err: err}
		}
	}

	return &Error{Kind: KindAPI, Message: message, Err: err}
}
