// Package jj wraps the jj CLI. All VCS reads and pushes go through this
// package by shelling out to jj; there are no direct git calls.
package jj

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Signature is an author or committer signature from jj's JSON output.
type Signature struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// commitData is the commit object from jj's json(self) serialization.
type commitData struct {
	CommitID    string    `json:"commit_id"`
	Parents     []string  `json:"parents"`
	ChangeID    string    `json:"change_id"`
	Description string    `json:"description"`
	Author      Signature `json:"author"`
	Committer   Signature `json:"committer"`
}

// commitRefData is a bookmark ref attached to a log entry.
type commitRefData struct {
	Name   string   `json:"name"`
	Target []string `json:"target"`
	Remote *string  `json:"remote,omitempty"`
}

// logEntryRaw is one NDJSON line from the log template.
type logEntryRaw struct {
	Commit          commitData      `json:"commit"`
	LocalBookmarks  []commitRefData `json:"local_bookmarks"`
	RemoteBookmarks []commitRefData `json:"remote_bookmarks"`
}

// bookmarkEntryRaw is one NDJSON line from the bookmark list template.
type bookmarkEntryRaw struct {
	Name   string `json:"name"`
	Synced bool   `json:"synced"`
	// Target is nil if the bookmark is conflicted (no normal target).
	Target *commitData `json:"target"`
}

// Bookmark is a local bookmark owned by the current user.
type Bookmark struct {
	Name     string
	CommitID string
	ChangeID string
	Synced   bool
}

// LogEntry is one commit in an ancestry walk, with the bookmark names
// present on it.
type LogEntry struct {
	CommitID        string
	ChangeID        string
	Description     string
	Parents         []string
	AuthorName      string
	Timestamp       time.Time
	LocalBookmarks  []string
	RemoteBookmarks []string
}

// Remote is a git remote as reported by jj.
type Remote struct {
	Name string
	URL  string
}

// parseNDJSON decodes newline-delimited JSON into values of type T.
// Empty lines are skipped.
func parseNDJSON[T any](output string) ([]T, error) {
	var result []T
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			return nil, fmt.Errorf("failed to parse jj output line %q: %w", line, err)
		}
		result = append(result, v)
	}
	return result, nil
}
