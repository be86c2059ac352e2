// Package tandoor is a thin client for the Tandoor recipe-manager API,
// covering the five calls the importer needs: paginated listing, detail
// fetch, scrape-from-source, creation and image attachment. Every call
// carries the bearer token; every call takes a context and times out on its
// own.
package tandoor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"tandoorimport/config"
	"tandoorimport/types"
)

// Client talks to one Tandoor instance.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the instance at baseURL. The trailing slash is
// trimmed so paths concatenate cleanly.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// BaseURL reports the configured instance URL.
func (c *Client) BaseURL() string { return c.baseURL }

// HTTPClient exposes the underlying client for callers that probe non-API
// URLs (redirect resolution) with the same timeout behavior.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// StatusError reports a non-success HTTP status from the API, with the
// response body trimmed for logging.
type StatusError struct {
	StatusCode int
	Body       string

	// RetryAfter is the server's Retry-After value in seconds, zero when
	// the header was absent or unparseable.
	RetryAfter int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned %d: %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

// IsAuthFailure reports whether err is a 401 or 403 response.
func IsAuthFailure(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}

// newRequest builds an authenticated request for path.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

// doJSON performs a JSON request against path. A non-2xx status comes back
// as a *StatusError; when result is non-nil the response body is decoded
// into it.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(bodyBytes)),
			RetryAfter: retryAfter,
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &types.ProcessingError{Msg: "invalid response format from Tandoor", Err: err}
		}
	}

	return nil
}
