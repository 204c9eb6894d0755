// Package client provides a typed HTTP client for the LinkStash API and
// an incremental loader that accumulates paginated results.
package client

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Resource mirrors the wire shape of a resource record.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ResourceInput is the payload for create and update calls.
type ResourceInput struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Pagination describes the position of a page within the full result set.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ResourceList is one page of resources with pagination metadata.
type ResourceList struct {
	Data       []Resource `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string              // From the {"error": ...} body, if present
	Fields     map[string][]string // From the {"errors": ...} body, if present
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Client talks to a LinkStash server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ListResources fetches one page of resources. An empty query lists the
// whole collection; zero page or limit lets the server apply defaults.
func (c *Client) ListResources(ctx context.Context, query string, page, limit int) (*ResourceList, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	path := "/resources"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list ResourceList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FetchPage implements PageFetcher so the Client can drive a Loader.
func (c *Client) FetchPage(ctx context.Context, query string, page, limit int) (*ResourceList, error) {
	return c.ListResources(ctx, query, page, limit)
}

// GetResource fetches a single resource by ID.
func (c *Client) GetResource(ctx context.Context, id string) (*Resource, error) {
	var resource Resource
	if err := c.do(ctx, http.MethodGet, "/resources/"+url.PathEscape(id), nil, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// CreateResource creates a new resource. Requires a token.
func (c *Client) CreateResource(ctx context.Context, input ResourceInput) (*Resource, error) {
	var resource Resource
	if err := c.do(ctx, http.MethodPost, "/resources", input, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// UpdateResource fully replaces an existing resource. Requires a token.
func (c *Client) UpdateResource(ctx context.Context, id string, input ResourceInput) (*Resource, error) {
	var resource Resource
	if err := c.do(ctx, http.MethodPut, "/resources/"+url.PathEscape(id), input, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// DeleteResource removes a resource. Requires a token. Deleting an
// absent resource succeeds; the server treats deletes as idempotent.
func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/resources/"+url.PathEscape(id), nil, nil)
}

// ResolvePreview asks the server for the og:image of an external page.
// Returns "" when no preview is available; the endpoint never fails
// for unreachable targets.
func (c *Client) ResolvePreview(ctx context.Context, target string) (string, error) {
	params := url.Values{}
	params.Set("url", target)

	var body struct {
		Image *string `json:"image"`
	}
	if err := c.do(ctx, http.MethodGet, "/preview?"+params.Encode(), nil, &body); err != nil {
		return "", err
	}
	if body.Image == nil {
		return "", nil
	}
	return *body.Image, nil
}

// Login authenticates and stores the issued token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload := map[string]string{"email": email, "password": password}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &body); err != nil {
		return err
	}

	c.token = body.Token
	return nil
}

// do executes a request and decodes the response into dest (if non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, data)
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body struct {
		Error  string              `json:"error"`
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Error
		apiErr.Fields = body.Errors
		if apiErr.Message == "" && len(apiErr.Fields) > 0 {
			apiErr.Message = "validation failed"
		}
	}

	return apiErr
}
