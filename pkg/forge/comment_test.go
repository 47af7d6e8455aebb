package forge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStackData() StackCommentData {
	return StackCommentData{
		Version: 0,
		Stack: []StackEntry{
			{
				Bookmark: "feat-a",
				PRURL:    "https://github.com/owner/repo/pull/1",
				PRNumber: 1,
			},
			{
				Bookmark: "feat-b",
				PRURL:    "https://github.com/owner/repo/pull/2",
				PRNumber: 2,
			},
		},
	}
}

func TestFormatAndParseRoundtrip(t *testing.T) {
	data := sampleStackData()
	body := FormatStackComment(data, 0)

	parsed, ok := ParseStackComment(body)
	require.True(t, ok)
	assert.Equal(t, data, parsed)
}

func TestFormatHighlightsCurrentPR(t *testing.T) {
	body := FormatStackComment(sampleStackData(), 1)

	assert.Contains(t, body, "**https://github.com/owner/repo/pull/2 ← this PR**")
	assert.NotContains(t, body, "**https://github.com/owner/repo/pull/1")
}

func TestFormatIncludesTrunk(t *testing.T) {
	body := FormatStackComment(sampleStackData(), 0)
	assert.Contains(t, body, "`trunk()`")
}

func TestFormatMarksMergedEntries(t *testing.T) {
	data := sampleStackData()
	data.Stack[0].Merged = true

	body := FormatStackComment(data, 1)
	assert.Contains(t, body, "https://github.com/owner/repo/pull/1 (merged)")
}

func TestFormatPluralization(t *testing.T) {
	solo := StackCommentData{
		Stack: []StackEntry{
			{Bookmark: "solo", PRURL: "https://github.com/o/r/pull/1", PRNumber: 1},
		},
	}
	body := FormatStackComment(solo, 0)
	assert.Contains(t, body, "1 bookmark:")
	assert.NotContains(t, body, "bookmarks:")

	body = FormatStackComment(sampleStackData(), 0)
	assert.Contains(t, body, "2 bookmarks:")
}

func TestFormatIncludesFooter(t *testing.T) {
	body := FormatStackComment(sampleStackData(), 0)
	assert.Contains(t, body, commentFooter)
}

func TestFindStackComment(t *testing.T) {
	comments := []Comment{
		{ID: 1, Body: "Some unrelated comment"},
		{ID: 2, Body: FormatStackComment(sampleStackData(), 0)},
	}

	found := FindStackComment(comments)
	require.NotNil(t, found)
	assert.Equal(t, int64(2), found.ID)
}

func TestFindStackCommentNoneWhenAbsent(t *testing.T) {
	comments := []Comment{{ID: 1, Body: "Nothing here"}}
	assert.Nil(t, FindStackComment(comments))
}

func TestParseWithDifferentBodyText(t *testing.T) {
	// Parse metadata even when the body text around it differs.
	data := sampleStackData()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	encoded := base64.StdEncoding.EncodeToString(raw)

	body := fmt.Sprintf("%s%s%s\nSome different body text\n\n---\n*Some other footer*",
		commentDataPrefix, encoded, commentDataSuffix)

	parsed, ok := ParseStackComment(body)
	require.True(t, ok)
	assert.Equal(t, data, parsed)
}

func TestParseInvalidBase64(t *testing.T) {
	body := commentDataPrefix + "not-valid-base64!!!" + commentDataSuffix + "\nstuff"
	_, ok := ParseStackComment(body)
	assert.False(t, ok)
}

func TestParseNoMetadata(t *testing.T) {
	_, ok := ParseStackComment("just a regular comment")
	assert.False(t, ok)
}
