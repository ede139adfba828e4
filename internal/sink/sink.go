// Package sink forwards vehicle records to the ingestion service.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-sod/vrelay/internal/httputil"
	"github.com/go-sod/vrelay/internal/vehicle"
)

// Ack is the sink's answer to one forwarded batch.
type Ack struct {
	Status int
	Body   string
}

// Accepted reports a 2xx answer.
func (a Ack) Accepted() bool {
	return a.Status >= 200 && a.Status < 300
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Client) {
		s.client = c
	}
}

func WithContentType(v string) Option {
	return func(s *Client) {
		s.contentType = v
	}
}

func New(rawURL string, opts ...Option) (*Client, error) {
	link, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("url parsing error: %w", err)
	}
	if link.Scheme == "" || link.Host == "" {
		return nil, fmt.Errorf("sink url must be absolute: %q", rawURL)
	}
	c := &Client{
		url:         link.String(),
		client:      http.DefaultClient,
		contentType: "application/json",
	}
	for _, f := range opts {
		f(c)
	}
	return c, nil
}

type Client struct {
	url         string
	client      *http.Client
	contentType string
}

// Send posts the payload bytes unchanged. Any HTTP status is returned as an
// Ack, only transport failures are errors.
func (c *Client) Send(ctx context.Context, payload vehicle.Payload) (Ack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload.Bytes()))
	if err != nil {
		return Ack{}, fmt.Errorf("creating request error: %w", err)
	}
	req.Header.Set("Content-Type", c.contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return Ack{}, fmt.Errorf("sending request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return Ack{}, err
	}
	return Ack{Status: resp.StatusCode, Body: string(body)}, nil
}
