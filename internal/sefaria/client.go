// Package sefaria implements the HTTP client for the Sefaria text-repository
// API. All calls go to a single configurable base URL. The client classifies
// failures (transport, status, parse) and never hands back partially-parsed
// JSON; retry and fallback policy belongs to callers, not this layer.
package sefaria

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sefaria-community/sefaria-mcp/internal/logging"
)

// Client issues requests against one Sefaria API host.
type Client struct {
	baseURL string
	http    *http.Client
	binary  *http.Client
	log     logging.Logger
}

// NewClient creates a client for the given base URL. Every API request is
// bounded by timeout; binary downloads carry their own deadline and use a
// client with no timeout of its own.
func NewClient(baseURL string, timeout time.Duration, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		binary: &http.Client{},
		log:    log,
	}
}

// BaseURL returns the configured upstream host.
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON fetches baseURL/path and decodes the JSON body. User-supplied
// path segments must already be percent-encoded by the caller.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) (any, error) {
	body, err := c.get(ctx, c.endpoint(path, query))
	if err != nil {
		return nil, err
	}
	return decodeJSON(body)
}

// PostJSON sends body as JSON to baseURL/path and decodes the JSON response.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodeJSON(respBody)
}

// GetPlainText fetches baseURL/path and returns the raw body with
// surrounding whitespace trimmed. Used for endpoints that answer with a
// bare string rather than JSON.
func (c *Client) GetPlainText(ctx context.Context, path string) (string, error) {
	body, err := c.get(ctx, c.endpoint(path, nil))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// GetBinary downloads an arbitrary URL (typically a manuscript image) and
// returns the body together with the Content-Type header. The download is
// bounded only by timeout, never by the client's API timeout.
func (c *Client) GetBinary(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}

	resp, err := c.binary.Do(req)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &StatusError{Code: resp.StatusCode, Body: truncateBody(body)}
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	logging.Debugf(c.log, "sefaria API request: %s %s", req.Method, req.URL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncateBody(body)}
	}

	return body, nil
}

func decodeJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}

// truncateBody keeps error messages readable when upstream returns a large
// HTML error page.
func truncateBody(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
