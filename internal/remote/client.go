// Package remote reads and writes the three snapshot documents against a
// GitHub repository through the contents API. Each document carries the
// blob sha returned on read as its opaque version token; writes supply the
// last observed sha and recover from a version conflict by re-reading and
// retrying exactly once before giving up.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/checkin/internal/model"
)

// maxPutAttempts bounds the write-conflict retry loop: the initial attempt
// plus one retry with a freshly read sha.
const maxPutAttempts = 2

// Client talks to the GitHub repository contents API for one configured
// remote target.
type Client struct {
	apiBase    string
	settings   model.Settings
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given remote target. The token is the
// personal access token used for Bearer authentication.
func NewClient(settings model.Settings, token string, timeout time.Duration) *Client {
	if settings.Branch == "" {
		settings.Branch = "main"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiBase:  "https://api.github.com",
		settings: settings,
		token:    token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether the client has a complete remote target:
// owner, repository, and token.
func (c *Client) Configured() bool {
	return c.settings.Configured() && strings.TrimSpace(c.token) != ""
}

// contentsURL builds the contents-API URL for a repository path.
func (c *Client) contentsURL(path string, withRef bool) string {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.apiBase, c.settings.Owner, c.settings.Repo, path)
	if withRef {
		u += "?ref=" + url.QueryEscape(c.settings.Branch)
	}
	return u
}

// contentsResponse is the subset of the contents-API read response we use.
type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// errorResponse is the shape of a contents-API error body.
type errorResponse struct {
	Message string `json:"message"`
}

// do executes one request with auth headers and returns the response body.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing request %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// apiMessage extracts the human-readable message from an error body.
func apiMessage(status int, body []byte) string {
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Message != "" {
		return er.Message
	}
	return fmt.Sprintf("HTTP %d", status)
}

// GetFile reads one document. It returns the decoded content and the sha
// version token, or found=false when the document has never been written.
func (c *Client) GetFile(ctx context.Context, path string) (content []byte, sha string, found bool, err error) {
	if !c.Configured() {
		return nil, "", false, ErrNotConfigured
	}

	status, body, err := c.do(ctx, http.MethodGet, c.contentsURL(path, true), nil)
	if err != nil {
		return nil, "", false, err
	}

	switch {
	case status == http.StatusNotFound:
		return nil, "", false, nil
	case status == http.StatusUnauthorized:
		return nil, "", false, &AuthError{
			Message: fmt.Sprintf("authentication failed (401) reading %s: check the access token", path),
		}
	case status < 200 || status >= 300:
		return nil, "", false, &APIError{StatusCode: status, Path: path, Message: apiMessage(status, body)}
	}

	var cr contentsResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, "", false, fmt.Errorf("decoding contents response for %s: %w", path, err)
	}

	// The API wraps base64 content with newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(cr.Content, "\n", ""))
	if err != nil {
		return nil, "", false, fmt.Errorf("decoding base64 content of %s: %w", path, err)
	}

	return decoded, cr.SHA, true, nil
}

// putRequest is the contents-API write body.
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// PutFile writes one document. The sha of the current remote version is
// read before each attempt; a 409 conflict means another writer got in
// between, so the loop re-reads and tries once more before surfacing a
// ConflictError. Content-level reconciliation is not this layer's job.
func (c *Client) PutFile(ctx context.Context, path string, content []byte) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		_, sha, _, err := c.GetFile(ctx, path)
		if err != nil {
			return err
		}

		reqBody, err := json.Marshal(putRequest{
			Message: "update " + path,
			Content: base64.StdEncoding.EncodeToString(content),
			Branch:  c.settings.Branch,
			SHA:     sha,
		})
		if err != nil {
			return fmt.Errorf("marshaling write request for %s: %w", path, err)
		}

		status, body, err := c.do(ctx, http.MethodPut, c.contentsURL(path, false), bytes.NewReader(reqBody))
		if err != nil {
			return err
		}

		switch {
		case status >= 200 && status < 300:
			return nil
		case status == http.StatusConflict:
			continue
		case status == http.StatusUnauthorized:
			return &AuthError{
				Message: fmt.Sprintf("authentication failed (401) writing %s: check the access token", path),
			}
		default:
			return &APIError{StatusCode: status, Path: path, Message: apiMessage(status, body)}
		}
	}

	return &ConflictError{Path: path}
}
