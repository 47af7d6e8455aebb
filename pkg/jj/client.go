package jj

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// LogPageSize is the number of commits fetched per ancestry page. A page
// shorter than this terminates the walk.
const LogPageSize = 100

// bookmarkTemplate serializes each bookmark list entry as one JSON line.
const bookmarkTemplate = `'{"name":' ++ json(self.name()) ++ ',"synced":' ++ json(self.synced()) ++ ',"target":' ++ json(self.normal_target()) ++ '}' ++ "\n"`

// logTemplate serializes each log entry as one JSON line with its commit
// and the bookmark refs attached to it.
const logTemplate = `'{"commit":' ++ json(self) ++ ',"local_bookmarks":' ++ json(self.local_bookmarks()) ++ ',"remote_bookmarks":' ++ json(self.remote_bookmarks()) ++ '}' ++ "\n"`

// trunkBookmarkTemplate prints the local bookmark names on a commit, one
// per line.
const trunkBookmarkTemplate = `self.local_bookmarks().map(|b| b.name()).join("\n")`

// Client provides read and push access to the local jj repository.
type Client struct {
	runner Runner
}

// NewClient creates a Client using the given runner.
func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// MyBookmarks returns the bookmarks owned by the current user, excluding
// any that are ancestors of trunk. Conflicted bookmarks (no resolvable
// target) are returned separately by name so callers can report them.
func (c *Client) MyBookmarks(ctx context.Context) (bookmarks []Bookmark, conflicted []string, err error) {
	out, err := c.runner.Run(ctx,
		"bookmark", "list",
		"--revisions", "mine() ~ ::trunk()",
		"--template", bookmarkTemplate,
	)
	if err != nil {
		return nil, nil, err
	}

	entries, err := parseNDJSON[bookmarkEntryRaw](out)
	if err != nil {
		return nil, nil, err
	}

	for _, entry := range entries {
		if entry.Target == nil {
			conflicted = append(conflicted, entry.Name)
			continue
		}
		bookmarks = append(bookmarks, Bookmark{
			Name:     entry.Name,
			CommitID: entry.Target.CommitID,
			ChangeID: entry.Target.ChangeID,
			Synced:   entry.Synced,
		})
	}

	log.Debug().Int("bookmarks", len(bookmarks)).Int("conflicted", len(conflicted)).Msg("listed user bookmarks")

	return bookmarks, conflicted, nil
}

// LogPage fetches one page of the ancestry walk from head toward trunk.
// An empty cursor fetches the first page; otherwise the walk continues
// below the cursor commit. Entries are ordered newest-first.
func (c *Client) LogPage(ctx context.Context, head, cursor string) ([]LogEntry, error) {
	revset := fmt.Sprintf("trunk()..%s", head)
	if cursor != "" {
		revset = fmt.Sprintf("trunk()..%s-", cursor)
	}

	out, err := c.runner.Run(ctx,
		"log", "--no-graph",
		"--revisions", revset,
		"--limit", strconv.Itoa(LogPageSize),
		"--template", logTemplate,
	)
	if err != nil {
		return nil, err
	}

	raws, err := parseNDJSON[logEntryRaw](out)
	if err != nil {
		return nil, err
	}

	entries := make([]LogEntry, 0, len(raws))
	for _, raw := range raws {
		entries = append(entries, LogEntry{
			CommitID:        raw.Commit.CommitID,
			ChangeID:        raw.Commit.ChangeID,
			Description:     raw.Commit.Description,
			Parents:         raw.Commit.Parents,
			AuthorName:      raw.Commit.Author.Name,
			Timestamp:       raw.Commit.Author.Timestamp,
			LocalBookmarks:  refNames(raw.LocalBookmarks),
			RemoteBookmarks: refNames(raw.RemoteBookmarks),
		})
	}

	return entries, nil
}

// PushBookmark pushes a single bookmark to the named remote. Pushing is
// idempotent: pushing an already-synced bookmark is a no-op.
func (c *Client) PushBookmark(ctx context.Context, bookmark, remote string) error {
	log.Debug().Str("bookmark", bookmark).Str("remote", remote).Msg("pushing bookmark")

	_, err := c.runner.Run(ctx,
		"git", "push",
		"--remote", remote,
		"--bookmark", bookmark,
		"--allow-new",
	)
	return err
}

// DefaultBranch resolves the trunk branch name from the local bookmark
// on trunk().
func (c *Client) DefaultBranch(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx,
		"log", "--no-graph",
		"--revisions", "trunk()",
		"--limit", "1",
		"--template", trunkBookmarkTemplate,
	)
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			return name, nil
		}
	}

	return "", fmt.Errorf("no bookmark found on trunk()")
}

// Remotes lists the configured git remotes.
func (c *Client) Remotes(ctx context.Context) ([]Remote, error) {
	out, err := c.runner.Run(ctx, "git", "remote", "list")
	if err != nil {
		return nil, err
	}

	var remotes []Remote
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 { //nolint:mnd
			return nil, fmt.Errorf("unexpected remote list line: %q", line)
		}
		remotes = append(remotes, Remote{Name: fields[0], URL: fields[1]})
	}

	return remotes, nil
}

func refNames(refs []commitRefData) []string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}
