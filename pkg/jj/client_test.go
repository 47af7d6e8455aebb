package jj

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner records invocations and returns canned output per call.
type mockRunner struct {
	calls   [][]string
	outputs []string
	errs    []error
}

func (m *mockRunner) Run(_ context.Context, args ...string) (string, error) {
	idx := len(m.calls)
	m.calls = append(m.calls, args)

	var err error
	if idx < len(m.errs) {
		err = m.errs[idx]
	}
	var out string
	if idx < len(m.outputs) {
		out = m.outputs[idx]
	}
	return out, err
}

func TestMyBookmarks(t *testing.T) {
	runner := &mockRunner{
		outputs: []string{`
{"name":"feature-a","synced":true,"target":{"commit_id":"aaa111","parents":["base000"],"change_id":"qqq","description":"add feature a","author":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-01T10:00:00Z"},"committer":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-01T10:00:00Z"}}}
{"name":"feature-b","synced":false,"target":{"commit_id":"bbb222","parents":["aaa111"],"change_id":"rrr","description":"add feature b","author":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-02T10:00:00Z"},"committer":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-02T10:00:00Z"}}}
{"name":"broken","synced":false,"target":null}
`},
	}
	client := NewClient(runner)

	bookmarks, conflicted, err := client.MyBookmarks(context.Background())
	require.NoError(t, err)

	require.Len(t, bookmarks, 2)
	assert.Equal(t, Bookmark{Name: "feature-a", CommitID: "aaa111", ChangeID: "qqq", Synced: true}, bookmarks[0])
	assert.Equal(t, Bookmark{Name: "feature-b", CommitID: "bbb222", ChangeID: "rrr", Synced: false}, bookmarks[1])
	assert.Equal(t, []string{"broken"}, conflicted)

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "mine() ~ ::trunk()")
}

func TestMyBookmarksEmpty(t *testing.T) {
	runner := &mockRunner{outputs: []string{""}}
	client := NewClient(runner)

	bookmarks, conflicted, err := client.MyBookmarks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
	assert.Empty(t, conflicted)
}

func TestLogPage(t *testing.T) {
	runner := &mockRunner{
		outputs: []string{`
{"commit":{"commit_id":"bbb222","parents":["aaa111"],"change_id":"rrr","description":"add feature b\n\nmore detail","author":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-02T10:00:00Z"},"committer":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-02T10:00:00Z"}},"local_bookmarks":[{"name":"feature-b","target":["bbb222"]}],"remote_bookmarks":[{"name":"feature-b","target":["bbb222"],"remote":"origin"}]}
{"commit":{"commit_id":"aaa111","parents":["base000"],"change_id":"qqq","description":"add feature a","author":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-01T10:00:00Z"},"committer":{"name":"Pat","email":"pat@example.com","timestamp":"2026-08-01T10:00:00Z"}},"local_bookmarks":[],"remote_bookmarks":[]}
`},
	}
	client := NewClient(runner)

	entries, err := client.LogPage(context.Background(), "bbb222", "")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "bbb222", entries[0].CommitID)
	assert.Equal(t, "rrr", entries[0].ChangeID)
	assert.Equal(t, []string{"aaa111"}, entries[0].Parents)
	assert.Equal(t, []string{"feature-b"}, entries[0].LocalBookmarks)
	assert.Equal(t, []string{"feature-b"}, entries[0].RemoteBookmarks)
	assert.Equal(t, "aaa111", entries[1].CommitID)
	assert.Empty(t, entries[1].LocalBookmarks)

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "trunk()..bbb222")
}

func TestLogPageCursor(t *testing.T) {
	runner := &mockRunner{outputs: []string{""}}
	client := NewClient(runner)

	_, err := client.LogPage(context.Background(), "bbb222", "aaa111")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "trunk()..aaa111-")
}

func TestPushBookmark(t *testing.T) {
	runner := &mockRunner{outputs: []string{""}}
	client := NewClient(runner)

	err := client.PushBookmark(context.Background(), "feature-a", "origin")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"git", "push", "--remote", "origin", "--bookmark", "feature-a", "--allow-new"}, runner.calls[0])
}

func TestDefaultBranch(t *testing.T) {
	runner := &mockRunner{outputs: []string{"main\n"}}
	client := NewClient(runner)

	branch, err := client.DefaultBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestDefaultBranchMissing(t *testing.T) {
	runner := &mockRunner{outputs: []string{"\n"}}
	client := NewClient(runner)

	_, err := client.DefaultBranch(context.Background())
	assert.Error(t, err)
}

func TestRemotes(t *testing.T) {
	runner := &mockRunner{outputs: []string{"origin https://github.com/pat-s/stacker.git\nupstream git@github.com:other/stacker.git\n"}}
	client := NewClient(runner)

	remotes, err := client.Remotes(context.Background())
	require.NoError(t, err)

	require.Len(t, remotes, 2)
	assert.Equal(t, Remote{Name: "origin", URL: "https://github.com/pat-s/stacker.git"}, remotes[0])
	assert.Equal(t, Remote{Name: "upstream", URL: "git@github.com:other/stacker.git"}, remotes[1])
}

func TestRemotesMalformed(t *testing.T) {
	runner := &mockRunner{outputs: []string{"origin\n"}}
	client := NewClient(runner)

	_, err := client.Remotes(context.Background())
	assert.Error(t, err)
}

func TestClientPropagatesCommandError(t *testing.T) {
	cmdErr := &CommandError{Args: []string{"log"}, Stderr: "not a jj repo"}
	runner := &mockRunner{errs: []error{cmdErr}}
	client := NewClient(runner)

	_, err := client.LogPage(context.Background(), "head", "")
	require.Error(t, err)

	var ce *CommandError
	require.True(t, errors.As(err, &ce))
	assert.True(t, strings.Contains(ce.Error(), "not a jj repo"))
}

func TestParseNDJSONBadLine(t *testing.T) {
	_, err := parseNDJSON[bookmarkEntryRaw]("{not json}")
	assert.Error(t, err)
}
