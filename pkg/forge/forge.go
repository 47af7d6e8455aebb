// Package forge abstracts pull request operations across git forges.
// The submission pipeline only talks to the Forge interface; the
// GitHub and Forgejo implementations handle the API translation.
package forge

import (
	"context"
	"fmt"
	"os"
)

// Forge is the interface for interacting with git forges. All methods
// operate on the repository the client was constructed for.
type Forge interface {
	// AuthenticatedUser returns the login of the authenticated user.
	AuthenticatedUser(ctx context.Context) (string, error)

	// FindPRByHead finds the PR whose head branch matches the given
	// branch name. Open PRs win over closed or merged ones. Returns
	// nil when no PR exists for the branch.
	FindPRByHead(ctx context.Context, head string) (*PullRequest, error)

	// CreatePR creates a new pull request.
	CreatePR(ctx context.Context, opts CreatePROptions) (*PullRequest, error)

	// UpdatePRBase retargets an existing PR onto a new base branch.
	UpdatePRBase(ctx context.Context, number int, base string) error

	// ListComments lists all comments on a PR.
	ListComments(ctx context.Context, number int) ([]Comment, error)

	// CreateComment adds a comment to a PR.
	CreateComment(ctx context.Context, number int, body string) (*Comment, error)

	// UpdateComment replaces the body of an existing comment.
	UpdateComment(ctx context.Context, commentID int64, body string) error

	// DefaultBranch returns the repository's default branch name.
	DefaultBranch(ctx context.Context) (string, error)

	// Name returns the name of the forge.
	Name() string
}

// NewOptions holds options for creating a forge client.
type NewOptions struct {
	ForgejoURL string // Required for Forgejo forge type
}

// New creates a new forge client for the given repository based on the
// forge type.
func New(forgeType, token, owner, repo string) (Forge, error) {
	return NewWithOptions(forgeType, token, owner, repo, NewOptions{})
}

// NewWithOptions creates a new forge client with additional options.
func NewWithOptions(forgeType, token, owner, repo string, opts NewOptions) (Forge, error) {
	switch forgeType {
	case "github":
		return NewGitHub(token, owner, repo), nil
	case "forgejo":
		// Forgejo requires a base URL - check options first, then environment.
		baseURL := opts.ForgejoURL
		if baseURL == "" {
			baseURL = os.Getenv("FORGEJO_URL")
		}
		if baseURL == "" {
			return nil, fmt.Errorf("FORGEJO_URL not configured (set in config file or FORGEJO_URL environment variable)")
		}
		return NewForgejo(baseURL, token, owner, repo), nil
	default:
		return nil, fmt.Errorf("unknown forge type: %s", forgeType)
	}
}
