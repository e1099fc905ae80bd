package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// clientTimeout is the total request timeout.
	clientTimeout = 30 * time.Second
	// dialTimeout is the connection timeout.
	dialTimeout = 10 * time.Second
	// tlsHandshakeTimeout is the TLS negotiation timeout.
	tlsHandshakeTimeout = 10 * time.Second
	// responseHeaderTimeout is time to wait for response headers.
	responseHeaderTimeout = 15 * time.Second
)

const userAgent = "userhub-go/0.1.0"

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// HTTPClient talks to a userhub API server over JSON/HTTP.
// It implements APIClient and is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient creates a client for the API at baseURL authenticating
// with the given API key.
func NewHTTPClient(baseURL, apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    newHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newHTTPClient returns an HTTP client with conservative timeouts that
// does not follow redirects.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: clientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// GetUser retrieves a user by ID.
func (c *HTTPClient) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user with optional attached docs.
func (c *HTTPClient) CreateUser(ctx context.Context, req CreateUserRequest) (*CreatedResponse, error) {
	var created CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListUsers returns a page of users.
func (c *HTTPClient) ListUsers(ctx context.Context, limit, offset int) (*ListResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var list ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/users?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteUser removes a user.
func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/users/"+id, nil, nil)
}

// UpdateUser applies a partial update. Nil fields in req are omitted
// from the request body.
func (c *HTTPClient) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UpdatedResponse, error) {
	var updated UpdatedResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/users/"+id, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// do performs one request/response cycle. A non-nil body is JSON
// encoded; a non-nil out receives the decoded success response.
// Non-2xx responses come back as *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeAPIError turns an error response into an *APIError. Bodies
// that are not the standard error envelope still produce a usable
// error carrying the status code.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
