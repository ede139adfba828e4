package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-sod/vrelay/internal/jobs"
)

type prefixRoundTripper struct {
	addr string
	rt   http.RoundTripper
}

func (p *prefixRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	u := r.URL
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	if u.Host == "" {
		u.Host = p.addr
	}

	return p.rt.RoundTrip(r)
}

// NewClient returns a client for a vrelay-srv listening on addr.
func NewClient(addr string) *Client {
	return &Client{client: &http.Client{Transport: &prefixRoundTripper{addr: addr, rt: http.DefaultTransport}}}
}

type Client struct {
	client *http.Client
}

func (c *Client) Relay(ctx context.Context) (RelayResponse, error) {
	var out RelayResponse
	err := c.do(ctx, http.MethodPost, "/v1/vehicle/relay", http.StatusAccepted, &out)
	return out, err
}

func (c *Client) Job(ctx context.Context, id string) (jobs.Job, error) {
	var out jobs.Job
	err := c.do(ctx, http.MethodGet, "/v1/jobs/"+id, http.StatusOK, &out)
	return out, err
}

func (c *Client) Jobs(ctx context.Context) ([]jobs.Job, error) {
	var out []jobs.Job
	err := c.do(ctx, http.MethodGet, "/v1/jobs", http.StatusOK, &out)
	return out, err
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", http.StatusOK, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, expected int, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, path, nil)
	if err != nil {
		return fmt.Errorf("create new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error with sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		return &StatusError{Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response error: %w", err)
	}
	return nil
}
