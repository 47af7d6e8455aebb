package jj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantHost  string
		wantOwner string
		wantRepo  string
		wantError bool
	}{
		{
			name:      "https with git suffix",
			url:       "https://github.com/pat-s/stacker.git",
			wantHost:  "github.com",
			wantOwner: "pat-s",
			wantRepo:  "stacker",
		},
		{
			name:      "https without git suffix",
			url:       "https://github.com/pat-s/stacker",
			wantHost:  "github.com",
			wantOwner: "pat-s",
			wantRepo:  "stacker",
		},
		{
			name:      "scp-like ssh",
			url:       "git@github.com:pat-s/stacker.git",
			wantHost:  "github.com",
			wantOwner: "pat-s",
			wantRepo:  "stacker",
		},
		{
			name:      "ssh scheme",
			url:       "ssh://git@github.com/pat-s/stacker.git",
			wantHost:  "github.com",
			wantOwner: "pat-s",
			wantRepo:  "stacker",
		},
		{
			name:      "https with trailing slash",
			url:       "https://github.com/owner/repo/",
			wantHost:  "github.com",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "non-github host parses",
			url:       "https://codeberg.org/owner/repo.git",
			wantHost:  "codeberg.org",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "missing repo",
			url:       "https://github.com/owner",
			wantError: true,
		},
		{
			name:      "extra path segments",
			url:       "https://github.com/owner/repo/extra",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRemoteURL(tt.url)

			if tt.wantError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, ref.Host)
			assert.Equal(t, tt.wantOwner, ref.Owner)
			assert.Equal(t, tt.wantRepo, ref.Repo)
		})
	}
}

func TestRepoRefIsGitHub(t *testing.T) {
	assert.True(t, RepoRef{Host: "github.com"}.IsGitHub())
	assert.False(t, RepoRef{Host: "codeberg.org"}.IsGitHub())
}

func TestRepoRefString(t *testing.T) {
	ref := RepoRef{Host: "github.com", Owner: "pat-s", Repo: "stacker"}
	assert.Equal(t, "pat-s/stacker", ref.String())
}
