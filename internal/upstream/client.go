package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrBadShape means a list response was neither a bare array nor one of
	// the known envelopes.
	ErrBadShape = errors.New("unexpected upstream response shape")
	// ErrDishAlreadyInMenu maps the upstream 400 on adding a dish twice.
	ErrDishAlreadyInMenu = errors.New("dish already in menu")
	ErrNotFound          = errors.New("not found upstream")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the catering REST API. All admin state ultimately lives
// there; this client is the only thing in the repo that touches it.
type Client struct {
	baseURL string
	client  HTTPClient
}

func NewClient(baseURL string, client HTTPClient) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return body, nil
}

// send issues a mutating request and drains the response. The caller only
// needs the status code; bodies of mutation responses are not used.
func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload []byte) (int, error) {
	return c.send(ctx, method, path, "application/json", payload)
}

func statusErr(method, path string, code int) error {
	if code == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	return fmt.Errorf("%s %s: status %d", method, path, code)
}
