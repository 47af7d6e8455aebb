package forge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Stack comments carry base64-encoded metadata on their first line so
// later runs can find and update the same comment idempotently.
const (
	commentDataPrefix = "<!--- STACKER_STACK: "
	commentDataSuffix = " --->"
	// Unicode left arrow marking the current PR in the stack list.
	commentThisPR = "\u2190 this PR"
	commentFooter = "*Created with [stacker](https://codefloe.com/pat-s/stacker)*"
)

// StackCommentData is the metadata embedded in stack comments.
type StackCommentData struct {
	Version int          `json:"version"`
	Stack   []StackEntry `json:"stack"`
}

// StackEntry is one PR in the stack comment metadata, ordered
// trunk-to-leaf.
type StackEntry struct {
	// Bookmark is the jj bookmark name.
	Bookmark string `json:"bookmark_name"`
	// PRURL is the full URL to the pull request.
	PRURL string `json:"pr_url"`
	// PRNumber is the PR number.
	PRNumber int `json:"pr_number"`
	// Merged marks entries whose PR has already been merged.
	Merged bool `json:"merged,omitempty"`
}

// FormatStackComment renders the stack comment body for one PR in the
// stack. currentIndex is the index into data.Stack for the PR this
// comment will be posted on.
func FormatStackComment(data StackCommentData, currentIndex int) string {
	raw, err := json.Marshal(data)
	if err != nil {
		// StackCommentData contains only plain values.
		panic(err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	plural := "s"
	if len(data.Stack) == 1 {
		plural = ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s\n", commentDataPrefix, encoded, commentDataSuffix)
	fmt.Fprintf(&b, "This PR is part of a stack of %d bookmark%s:\n\n", len(data.Stack), plural)
	b.WriteString("1. `trunk()`\n")

	for i, entry := range data.Stack {
		suffix := ""
		if entry.Merged {
			suffix = " (merged)"
		}
		if i == currentIndex {
			fmt.Fprintf(&b, "1. **%s %s**%s\n", entry.PRURL, commentThisPR, suffix)
		} else {
			fmt.Fprintf(&b, "1. %s%s\n", entry.PRURL, suffix)
		}
	}

	fmt.Fprintf(&b, "\n---\n%s", commentFooter)
	return b.String()
}

// FindStackComment returns the existing stack comment among comments,
// detected by the metadata prefix, or nil when none exists.
func FindStackComment(comments []Comment) *Comment {
	for i := range comments {
		if strings.Contains(comments[i].Body, commentDataPrefix) {
			return &comments[i]
		}
	}
	return nil
}

// ParseStackComment extracts the stack metadata from a comment body.
// The second return value is false when the body carries no valid
// metadata.
func ParseStackComment(body string) (StackCommentData, bool) {
	firstLine, _, _ := strings.Cut(body, "\n")

	start := strings.Index(firstLine, commentDataPrefix)
	if start < 0 {
		return StackCommentData{}, false
	}
	rest := firstLine[start+len(commentDataPrefix):]

	end := strings.Index(rest, commentDataSuffix)
	if end < 0 {
		return StackCommentData{}, false
	}

	raw, err := base64.StdEncoding.DecodeString(rest[:end])
	if err != nil {
		return StackCommentData{}, false
	}

	var data StackCommentData
	if err := json.Unmarshal(raw, &data); err != nil {
		return StackCommentData{}, false
	}
	return data, true
}
