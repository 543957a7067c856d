// Implements the Notion API client with rate limiting.

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/maruel/ksid"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Notion API base URL.
	BaseURL = "https://api.notion.com/v1"
	// APIVersion is the pinned Notion API version.
	APIVersion = "2022-06-28"
	// MinInterval is the minimum time between requests (3 req/sec).
	MinInterval = 334 * time.Millisecond
)

// Transport is the raw Notion API boundary.
//
// Implementations issue exactly one round trip per call and return the raw
// JSON response body.
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error)
}

// Client is a rate-limited Notion API client.
type Client struct {
	// BaseURL defaults to the public API; tests point it at an httptest server.
	BaseURL string

	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Transport = (*Client)(nil)

// NewClient creates a new Notion API client authenticated with an integration token.
func NewClient(token string) *Client {
	return &Client{
		BaseURL: BaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(MinInterval), 1),
	}
}

// newClientHTTP creates a client that relies on hc to authenticate requests.
func newClientHTTP(hc *http.Client) *Client {
	if hc.Timeout == 0 {
		hc.Timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    BaseURL,
		httpClient: hc,
		limiter:    rate.NewLimiter(rate.Every(MinInterval), 1),
	}
}

// Do performs an HTTP request with rate limiting.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SessionError{Op: method + " " + path, Err: err}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Notion-Version", APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	reqID := ksid.NewID()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SessionError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SessionError{Op: method + " " + path, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	slog.DebugContext(ctx, "notion", "req", reqID.String(), "method", method, "path", path, "status", resp.StatusCode, "dur", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Code == "" {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return nil, &apiErr
	}

	return respBody, nil
}
