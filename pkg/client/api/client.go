package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/litigio/tramita/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// Action is the wire form of an action row as served by the API
type Action struct {
	ID            int64      `json:"id"`
	ClientID      int64      `json:"client_id"`
	ClientName    string     `json:"client_name,omitempty"`
	Reference     string     `json:"reference,omitempty"`
	Title         string     `json:"title"`
	Complexity    string     `json:"complexity"`
	Status        string     `json:"status"`
	AssigneeID    int64      `json:"assignee_id"`
	AssigneeName  string     `json:"assignee_name,omitempty"`
	CreatorID     int64      `json:"creator_id"`
	CreatorName   string     `json:"creator_name,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	Filed         bool       `json:"filed"`
	ReviewComment string     `json:"review_comment,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Approved reports whether the server has stamped an approval
func (a *Action) Approved() bool {
	return a.ApprovedAt != nil
}

// FileEntry is a stored document with a short-lived download URL
type FileEntry struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url,omitempty"`
}

// Client talks to the action API. Credentials are sent as a bearer
// token pair on every request.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenID     string
	tokenSecret string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(tokenID, tokenSecret string) Option {
	return func(c *Client) {
		c.tokenID = tokenID
		c.tokenSecret = tokenSecret
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListActions fetches the filtered action set. Scope "mine" restricts
// to the caller's assignments; an empty status matches everything.
func (c *Client) ListActions(ctx context.Context, scope, status string) ([]Action, error) {
	query := url.Values{}
	if scope != "" {
		query.Set("scope", scope)
	}
	if status != "" {
		query.Set("status", status)
	}

	path := "/api/actions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp struct {
		Actions []Action `json:"actions"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Actions, nil
}

// CreateActionRequest carries the fields of a new action
type CreateActionRequest struct {
	ClientID   int64  `json:"client_id"`
	Title      string `json:"title"`
	Complexity string `json:"complexity"`
	Assignee   string `json:"assignee,omitempty"`
}

func (c *Client) CreateAction(ctx context.Context, req CreateActionRequest) (*Action, error) {
	return c.actionCall(ctx, http.MethodPost, "/api/actions", req)
}

// UpdateActionRequest updates only the fields that are non-nil
type UpdateActionRequest struct {
	Status     *string `json:"status,omitempty"`
	Assignee   *string `json:"assignee,omitempty"`
	Complexity *string `json:"complexity,omitempty"`
}

func (c *Client) UpdateAction(ctx context.Context, id int64, req UpdateActionRequest) (*Action, error) {
	return c.actionCall(ctx, http.MethodPut, fmt.Sprintf("/api/actions/%d", id), req)
}

func (c *Client) Approve(ctx context.Context, id int64) (*Action, error) {
	return c.actionCall(ctx, http.MethodPost, fmt.Sprintf("/api/actions/%d/approve", id), nil)
}

func (c *Client) Return(ctx context.Context, id int64, comment string) (*Action, error) {
	body := map[string]string{"comment": comment}
	return c.actionCall(ctx, http.MethodPost, fmt.Sprintf("/api/actions/%d/return", id), body)
}

func (c *Client) MarkFiled(ctx context.Context, id int64) (*Action, error) {
	return c.actionCall(ctx, http.MethodPost, fmt.Sprintf("/api/actions/%d/filed", id), nil)
}

func (c *Client) Unfile(ctx context.Context, id int64) (*Action, error) {
	return c.actionCall(ctx, http.MethodPost, fmt.Sprintf("/api/actions/%d/unfile", id), nil)
}

// ListFiles returns the action's documents grouped by category name
func (c *Client) ListFiles(ctx context.Context, actionID int64) (map[string][]FileEntry, error) {
	var resp struct {
		Files map[string][]FileEntry `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/actions/%d/files", actionID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// UploadFile sends a document as a multipart form and returns the
// stored key and download URL.
func (c *Client) UploadFile(ctx context.Context, actionID int64, category, filename string, r io.Reader) (string, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("category", category); err != nil {
		return "", "", goerr.Wrap(err, "failed to write category field")
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to create file part")
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", "", goerr.Wrap(err, "failed to copy file content")
	}
	if err := mw.Close(); err != nil {
		return "", "", goerr.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+fmt.Sprintf("/api/actions/%d/files", actionID), &buf)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to build upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", goerr.Wrap(err, "upload request failed")
	}
	defer safe.Close(ctx, httpResp.Body)

	if httpResp.StatusCode != http.StatusCreated {
		return "", "", apiError(httpResp)
	}

	var resp struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", "", goerr.Wrap(err, "failed to decode upload response")
	}
	return resp.Key, resp.URL, nil
}

// RemoveFile deletes a user-uploaded document by its stored name
func (c *Client) RemoveFile(ctx context.Context, actionID int64, filename string) error {
	body := map[string]string{"filename": filename}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/actions/%d/files/remove", actionID), body, nil)
}

func (c *Client) actionCall(ctx context.Context, method, path string, body any) (*Action, error) {
	var resp struct {
		Action Action `json:"action"`
	}
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Action, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("path", path))
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.tokenID != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s:%s", c.tokenID, c.tokenSecret))
	}
}

// Error is a typed API failure carrying the HTTP status hint
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &Error{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(data)),
	}
}
