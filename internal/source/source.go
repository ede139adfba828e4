// Package source fetches vehicle records from the upstream vehicle service.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-sod/vrelay/internal/httputil"
	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/vehicle"
)

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Client) {
		s.client = c
	}
}

func WithFilter(f vehicle.FilterRequest) Option {
	return func(s *Client) {
		s.filter = f
	}
}

// New returns a source client posting the filter request to rawURL.
func New(rawURL string, opts ...Option) (*Client, error) {
	link, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("url parsing error: %w", err)
	}
	if link.Scheme == "" || link.Host == "" {
		return nil, fmt.Errorf("source url must be absolute: %q", rawURL)
	}
	c := &Client{
		url:    link.String(),
		client: http.DefaultClient,
		filter: vehicle.DefaultFilter(),
	}
	for _, f := range opts {
		f(c)
	}
	return c, nil
}

type Client struct {
	url    string
	client *http.Client
	filter vehicle.FilterRequest
}

// Fetch posts the filter request and returns the "data" field of the
// response. The response status is not checked. A body that is valid JSON
// but not an object yields an absent payload.
func (c *Client) Fetch(ctx context.Context) (vehicle.Payload, error) {
	logger := logging.FromContext(ctx)
	body, err := json.Marshal(c.filter)
	if err != nil {
		return nil, fmt.Errorf("unable encode filter request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("Accept-Encoding", "gzip")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	logger.Debugf("source responded with status %d, %d bytes", resp.StatusCode, len(respBody))

	payload, err := vehicle.DecodeResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("decoding response error: %w", err)
	}
	return payload, nil
}
