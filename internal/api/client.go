// Package api is the typed client for the Lucid fleet-management API. It
// is the console's only data source: list reads feed the query cache and
// mutations trigger collection invalidation on success.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Client talks to the Lucid API. Session state (cookie plus CSRF token) is
// held on the client, so one client represents one console session.
//
// Requests are issued exactly once: failed reads surface immediately as
// typed errors and the caller decides whether to refetch.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger

	mu   sync.RWMutex
	csrf string
}

// New creates a client for the API at baseURL. The client keeps its own
// cookie jar for the session cookie.
func New(baseURL string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Jar: jar},
		logger:  logger,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		if csrf := c.csrfToken(); csrf != "" {
			req.Header.Set("X-CSRF-Token", csrf)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errorFromResponse(resp)
		c.logger.Debug("API request failed",
			"method", method, "path", path,
			"status", resp.StatusCode, "code", apiErr.Code)
		return apiErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Message: fmt.Sprintf("failed to decode response: %v", err)}
		}
	}
	return nil
}

func (c *Client) csrfToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrf
}

func listPath(base string, params ListParams) string {
	values := url.Values{}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.NextToken != "" {
		values.Set("next_token", params.NextToken)
	}
	if len(values) == 0 {
		return base
	}
	return base + "?" + values.Encode()
}

// ListHosts fetches the host collection.
func (c *Client) ListHosts(ctx context.Context, params ListParams) (PaginatedList[Host], error) {
	var list PaginatedList[Host]
	err := c.do(ctx, http.MethodGet, listPath("/api/v1/hosts", params), nil, &list)
	return list, err
}

// ListActivationKeys fetches the activation key collection.
func (c *Client) ListActivationKeys(ctx context.Context, params ListParams) (PaginatedList[ActivationKey], error) {
	var list PaginatedList[ActivationKey]
	err := c.do(ctx, http.MethodGet, listPath("/api/v1/activation-keys", params), nil, &list)
	return list, err
}

// CreateActivationKey creates a key and returns it together with its
// one-time token. The token is shown to the user once and is not
// refetchable; callers must not persist it.
func (c *Client) CreateActivationKey(ctx context.Context, req CreateActivationKeyRequest) (CreateActivationKeyResponse, error) {
	var resp CreateActivationKeyResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/activation-keys", req, &resp)
	return resp, err
}

// DeleteActivationKey removes a key by its internal ID.
func (c *Client) DeleteActivationKey(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/activation-keys/"+url.PathEscape(id), nil, nil)
}

// ListCAs fetches the certificate authority collection.
func (c *Client) ListCAs(ctx context.Context, params ListParams) (PaginatedList[CA], error) {
	var list PaginatedList[CA]
	err := c.do(ctx, http.MethodGet, listPath("/api/v1/cas", params), nil, &list)
	return list, err
}

// Login authenticates and stores the session material on the client.
func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return User{}, err
	}

	c.mu.Lock()
	c.csrf = resp.CSRFToken
	c.mu.Unlock()

	return c.Whoami(ctx)
}

// Logout ends the session. The local session material is cleared even when
// the API call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
	c.mu.Lock()
	c.csrf = ""
	c.mu.Unlock()
	return err
}

// Whoami resolves the current session to a user profile.
func (c *Client) Whoami(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil, &user)
	return user, err
}
