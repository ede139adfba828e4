package source

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-sod/vrelay/internal/httputil"
	"github.com/go-sod/vrelay/internal/vehicle"
)

func TestClientFetch(t *testing.T) {
	tests := []struct {
		name          string
		filter        *vehicle.FilterRequest
		status        int
		body          string
		expectedBody  string
		expectedErr   bool
		expectedCount int
	}{
		{
			name:          "default_filter",
			status:        http.StatusOK,
			body:          `{"data": [{}, {}, {}]}`,
			expectedBody:  `{"branch_id":"","filter_id":"0","force_login":false}`,
			expectedCount: 3,
		},
		{
			name:          "custom_filter",
			filter:        &vehicle.FilterRequest{BranchID: "00000000", FilterID: "0"},
			status:        http.StatusOK,
			body:          `{"data": []}`,
			expectedBody:  `{"branch_id":"00000000","filter_id":"0","force_login":false}`,
			expectedCount: 0,
		},
		{
			name:          "status_not_checked",
			status:        http.StatusServiceUnavailable,
			body:          `{"data": [{}]}`,
			expectedBody:  `{"branch_id":"","filter_id":"0","force_login":false}`,
			expectedCount: 1,
		},
		{
			name:          "array_body",
			status:        http.StatusOK,
			body:          `[1, 2]`,
			expectedBody:  `{"branch_id":"","filter_id":"0","force_login":false}`,
			expectedCount: 0,
		},
		{
			name:         "null_body",
			status:       http.StatusOK,
			body:         `null`,
			expectedBody: `{"branch_id":"","filter_id":"0","force_login":false}`,
			expectedErr:  true,
		},
		{
			name:         "plain_text_error",
			status:       http.StatusBadGateway,
			body:         `bad gateway`,
			expectedBody: `{"branch_id":"","filter_id":"0","force_login":false}`,
			expectedErr:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method, got: %s, expected: POST", r.Method)
				}
				b, _ := io.ReadAll(r.Body)
				got = string(b)
				w.WriteHeader(test.status)
				_, _ = io.WriteString(w, test.body)
			}))
			defer srv.Close()

			opts := []Option{WithHTTPClient(srv.Client())}
			if test.filter != nil {
				opts = append(opts, WithFilter(*test.filter))
			}
			c, err := New(srv.URL, opts...)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			payload, err := c.Fetch(context.Background())
			if (err != nil) != test.expectedErr {
				t.Fatalf("Fetch error, got: %v, expected error: %v", err, test.expectedErr)
			}
			if got != test.expectedBody {
				t.Errorf("request body, got: %s, expected: %s", got, test.expectedBody)
			}
			if payload.Count() != test.expectedCount {
				t.Errorf("count, got: %d, expected: %d", payload.Count(), test.expectedCount)
			}
		})
	}
}

func TestClientFetchGzip(t *testing.T) {
	tests := []struct {
		name          string
		gzip          bool
		expectedCount int
	}{
		{name: "gzip_encoded", gzip: true, expectedCount: 2},
		{name: "identity", expectedCount: 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Accept-Encoding") != "gzip" {
					t.Errorf("Accept-Encoding, got: %q, expected: gzip", r.Header.Get("Accept-Encoding"))
				}
				body := `{"data": [{"VehicleName": "a"}, {"VehicleName": "b"}]}`
				if !test.gzip {
					_, _ = io.WriteString(w, body)
					return
				}
				w.Header().Set("Content-Encoding", "gzip")
				gz := gzip.NewWriter(w)
				_, _ = io.WriteString(gz, body)
				_ = gz.Close()
			}))
			defer srv.Close()

			client, err := httputil.NewClientFromConfig(httputil.HTTPClientConfig{})
			if err != nil {
				t.Fatalf("NewClientFromConfig: %v", err)
			}
			c, err := New(srv.URL, WithHTTPClient(client))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			payload, err := c.Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if payload.Count() != test.expectedCount {
				t.Errorf("count, got: %d, expected: %d", payload.Count(), test.expectedCount)
			}
		})
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	for _, u := range []string{"", "/v1/vehicle/data", "133.18.115.234:8080"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q) must fail", u)
		}
	}
}
