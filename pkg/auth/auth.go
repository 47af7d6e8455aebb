// Package auth resolves GitHub authentication tokens. Sources are
// tried in priority order: gh CLI, GITHUB_TOKEN, GH_TOKEN.
package auth

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Source identifies where a token came from.
type Source int

const (
	// SourceGitHubCLI is `gh auth token`.
	SourceGitHubCLI Source = iota
	// SourceGitHubTokenEnv is the GITHUB_TOKEN environment variable.
	SourceGitHubTokenEnv
	// SourceGHTokenEnv is the GH_TOKEN environment variable.
	SourceGHTokenEnv
)

func (s Source) String() string {
	switch s {
	case SourceGitHubCLI:
		return "GitHub CLI (gh auth token)"
	case SourceGitHubTokenEnv:
		return "GITHUB_TOKEN environment variable"
	case SourceGHTokenEnv:
		return "GH_TOKEN environment variable"
	default:
		return "unknown"
	}
}

// Token is a resolved authentication token with its source.
type Token struct {
	Value  string
	Source Source
}

// ErrNoAuth is returned when no token could be resolved.
var ErrNoAuth = errors.New("no GitHub authentication found (run `gh auth login` or set GITHUB_TOKEN/GH_TOKEN)")

// ResolveToken resolves a GitHub token, trying gh CLI first, then the
// GITHUB_TOKEN and GH_TOKEN environment variables. The token is not
// validated against the API; use Forge.AuthenticatedUser for that.
func ResolveToken(ctx context.Context) (*Token, error) {
	if token := ghCLIToken(ctx); token != "" {
		log.Debug().Str("source", SourceGitHubCLI.String()).Msg("resolved token")
		return &Token{Value: token, Source: SourceGitHubCLI}, nil
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		log.Debug().Str("source", SourceGitHubTokenEnv.String()).Msg("resolved token")
		return &Token{Value: token, Source: SourceGitHubTokenEnv}, nil
	}

	if token := os.Getenv("GH_TOKEN"); token != "" {
		log.Debug().Str("source", SourceGHTokenEnv.String()).Msg("resolved token")
		return &Token{Value: token, Source: SourceGHTokenEnv}, nil
	}

	return nil, ErrNoAuth
}

// ghCLIToken asks the gh CLI for a token. Returns "" when gh is not
// installed, not authenticated, or fails.
func ghCLIToken(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
