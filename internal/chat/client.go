package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/comigor/prepbuddy/internal/relay"
)

// RelayClient talks to the assistant endpoint.
type RelayClient interface {
	// Stream opens a streaming answer; the caller closes the body.
	Stream(ctx context.Context, req relay.Request) (io.ReadCloser, error)
	Complete(ctx context.Context, req relay.Request) (string, error)
}

// HTTPRelay is a RelayClient over HTTP.
type HTTPRelay struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPRelay creates a client for the assistant endpoint at url. A nil
// client uses http.DefaultClient.
func NewHTTPRelay(url, token string, client *http.Client) *HTTPRelay {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRelay{url: url, token: token, client: client}
}

func (c *HTTPRelay) post(ctx context.Context, req relay.Request) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp, nil
}

func (c *HTTPRelay) Stream(ctx context.Context, req relay.Request) (io.ReadCloser, error) {
	req.Stream = true
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *HTTPRelay) Complete(ctx context.Context, req relay.Request) (string, error) {
	req.Stream = false
	resp, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out relay.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Response, nil
}
