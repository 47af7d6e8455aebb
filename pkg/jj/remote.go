package jj

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// RepoRef identifies a repository on a forge host.
type RepoRef struct {
	Host  string
	Owner string
	Repo  string
}

func (r RepoRef) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Repo)
}

// IsGitHub reports whether the reference points at github.com.
func (r RepoRef) IsGitHub() bool {
	return r.Host == "github.com"
}

// ParseRemoteURL parses a git remote URL (HTTPS, SSH, or scp-like) into a
// RepoRef. The URL must address exactly one owner/repository pair.
func ParseRemoteURL(url string) (RepoRef, error) {
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return RepoRef{}, fmt.Errorf("failed to parse remote URL %s: %w", url, err)
	}

	path := strings.Trim(ep.Path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" { //nolint:mnd
		return RepoRef{}, fmt.Errorf("remote URL %s does not address an owner/repo pair", url)
	}

	return RepoRef{
		Host:  ep.Host,
		Owner: parts[0],
		Repo:  parts[1],
	}, nil
}
