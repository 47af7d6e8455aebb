package forge

// PRState is the lifecycle state of a pull request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// PullRequest holds forge-agnostic pull request data.
type PullRequest struct {
	Number  int
	URL     string
	Title   string
	HeadRef string
	BaseRef string
	State   PRState
}

// Comment is a comment on a pull request.
type Comment struct {
	ID   int64
	Body string
}

// CreatePROptions holds parameters for creating a pull request.
type CreatePROptions struct {
	Title string
	Head  string
	Base  string
	Body  string
	Draft bool
}
