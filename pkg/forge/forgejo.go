package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Forgejo implements the Forge interface for Forgejo/Gitea.
type Forgejo struct {
	baseURL string
	token   string
	owner   string
	repo    string
	client  *http.Client
}

// NewForgejo creates a new Forgejo forge client bound to one repository.
func NewForgejo(baseURL, token, owner, repo string) *Forgejo {
	return &Forgejo{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		owner:   owner,
		repo:    repo,
		client:  &http.Client{Timeout: 30 * time.Second}, //nolint:mnd
	}
}

// Name returns the name of the forge.
func (f *Forgejo) Name() string {
	return "forgejo"
}

// forgejoUser is the API response for a user.
type forgejoUser struct {
	Login string `json:"login"`
}

// forgejoPR is the API response for a pull request.
type forgejoPR struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	Merged  bool   `json:"merged"`
	HTMLURL string `json:"html_url"`
	Head    struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
}

// forgejoComment is the API response for an issue comment.
type forgejoComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// forgejoRepo is the API response for a repository.
type forgejoRepo struct {
	DefaultBranch string `json:"default_branch"`
}

// forgejoErrorBody is the API error response.
type forgejoErrorBody struct {
	Message string `json:"message"`
}

// parseForgejoError extracts a clean error message from API response.
func parseForgejoError(body []byte) string {
	var errResp forgejoErrorBody
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	// Fallback to raw body, but clean it up
	return strings.TrimSpace(string(body))
}

// do performs one API request and decodes the response into out when
// out is non-nil. Status codes other than wantStatus become classified
// errors.
func (f *Forgejo) do(ctx context.Context, method, path string, reqBody, out any, wantStatus int) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, body)
	if err != nil {
		return err
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if f.token != "" {
		req.Header.Set("Authorization", "token "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &Error{Kind: KindAPI, Message: fmt.Sprintf("request to %s failed", path), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		message := fmt.Sprintf("%s %s: %s (%s)", method, path, resp.Status, parseForgejoError(raw))

		kind := KindAPI
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = KindAuth
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusTooManyRequests:
			kind = KindRateLimit
		}
		return &Error{Kind: kind, Message: message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

func (f *Forgejo) repoPath(suffix string, args ...any) string {
	return fmt.Sprintf("/api/v1/repos/%s/%s", f.owner, f.repo) + fmt.Sprintf(suffix, args...)
}

// AuthenticatedUser returns the login of the authenticated user.
func (f *Forgejo) AuthenticatedUser(ctx context.Context) (string, error) {
	var user forgejoUser
	if err := f.do(ctx, http.MethodGet, "/api/v1/user", nil, &user, http.StatusOK); err != nil {
		return "", err
	}
	return user.Login, nil
}

// FindPRByHead finds the PR whose head branch matches the given branch
// name. Open PRs win over closed or merged ones.
func (f *Forgejo) FindPRByHead(ctx context.Context, head string) (*PullRequest, error) {
	var prs []forgejoPR
	if err := f.do(ctx, http.MethodGet, f.repoPath("/pulls?state=all"), nil, &prs, http.StatusOK); err != nil {
		return nil, err
	}

	var found *PullRequest
	for i := range prs {
		if prs[i].Head.Ref != head {
			continue
		}
		candidate := forgejoPRInfo(&prs[i])
		if candidate.State == PRStateOpen {
			return candidate, nil
		}
		if found == nil {
			found = candidate
		}
	}

	return found, nil
}

// forgejoCreatePRRequest is the request body for creating a PR.
type forgejoCreatePRRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

// CreatePR creates a new pull request. Forgejo has no draft flag on
// creation, so drafts get the WIP title prefix instead.
func (f *Forgejo) CreatePR(ctx context.Context, opts CreatePROptions) (*PullRequest, error) {
	title := opts.Title
	if opts.Draft {
		title = "WIP: " + title
	}

	reqBody := forgejoCreatePRRequest{
		Title: title,
		Body:  opts.Body,
		Head:  opts.Head,
		Base:  opts.Base,
	}

	var pr forgejoPR
	if err := f.do(ctx, http.MethodPost, f.repoPath("/pulls"), reqBody, &pr, http.StatusCreated); err != nil {
		return nil, err
	}
	return forgejoPRInfo(&pr), nil
}

// UpdatePRBase retargets an existing PR onto a new base branch.
func (f *Forgejo) UpdatePRBase(ctx context.Context, number int, base string) error {
	reqBody := struct {
		Base string `json:"base"`
	}{Base: base}

	return f.do(ctx, http.MethodPatch, f.repoPath("/pulls/%d", number), reqBody, nil, http.StatusCreated)
}

// ListComments lists all comments on a PR.
func (f *Forgejo) ListComments(ctx context.Context, number int) ([]Comment, error) {
	var comments []forgejoComment
	if err := f.do(ctx, http.MethodGet, f.repoPath("/issues/%d/comments", number), nil, &comments, http.StatusOK); err != nil {
		return nil, err
	}

	result := make([]Comment, 0, len(comments))
	for _, c := range comments {
		result = append(result, Comment{ID: c.ID, Body: c.Body})
	}
	return result, nil
}

// CreateComment adds a comment to a PR.
func (f *Forgejo) CreateComment(ctx context.Context, number int, body string) (*Comment, error) {
	reqBody := struct {
		Body string `json:"body"`
	}{Body: body}

	var comment forgejoComment
	if err := f.do(ctx, http.MethodPost, f.repoPath("/issues/%d/comments", number), reqBody, &comment, http.StatusCreated); err != nil {
		return nil, err
	}
	return &Comment{ID: comment.ID, Body: comment.Body}, nil
}

// UpdateComment replaces the body of an existing comment.
func (f *Forgejo) UpdateComment(ctx context.Context, commentID int64, body string) error {
	reqBody := struct {
		Body string `json:"body"`
	}{Body: body}

	return f.do(ctx, http.MethodPatch, f.repoPath("/issues/comments/%d", commentID), reqBody, nil, http.StatusOK)
}

// DefaultBranch returns the repository's default branch name.
func (f *Forgejo) DefaultBranch(ctx context.Context) (string, error) {
	var repo forgejoRepo
	if err := f.do(ctx, http.MethodGet, f.repoPath(""), nil, &repo, http.StatusOK); err != nil {
		return "", err
	}

	if repo.DefaultBranch == "" {
		return "", &Error{Kind: KindAPI, Message: "repository has no default branch"}
	}
	return repo.DefaultBranch, nil
}

func forgejoPRInfo(pr *forgejoPR) *PullRequest {
	state := PRStateOpen
	switch {
	case pr.Merged:
		state = PRStateMerged
	case pr.State == "closed":
		state = PRStateClosed
	}

	return &PullRequest{
		Number:  pr.Number,
		URL:     pr.HTMLURL,
		Title:   pr.Title,
		HeadRef: pr.Head.Ref,
		BaseRef: pr.Base.Ref,
		State:   state,
	}
}
