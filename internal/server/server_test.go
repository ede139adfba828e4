package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-sod/vrelay/internal/integration"
	"github.com/go-sod/vrelay/internal/jobs"
	"github.com/go-sod/vrelay/internal/relay"
	"github.com/go-sod/vrelay/internal/sink"
	"github.com/go-sod/vrelay/internal/source"
)

func startService(t *testing.T, sourceBody string) (*integration.Client, string, chan []byte) {
	t.Helper()
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sourceBody)
	}))
	t.Cleanup(src.Close)

	received := make(chan []byte, 1)
	dst := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received <- b
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "OK")
	}))
	t.Cleanup(dst.Close)

	srcClient, err := source.New(src.URL)
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	dstClient, err := sink.New(dst.URL)
	if err != nil {
		t.Fatalf("sink.New: %v", err)
	}
	proc, err := relay.New(srcClient, dstClient)
	if err != nil {
		t.Fatalf("relay.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	manager, err := jobs.New(ctx, proc)
	if err != nil {
		t.Fatalf("jobs.New: %v", err)
	}

	srv, err := New("127.0.0.1:0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ServeHTTPHandler(ctx, NewMux(ctx, manager, nil))
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("ServeHTTPHandler: %v", err)
		}
		manager.Wait()
	})
	return integration.NewClient(srv.Addr()), srv.Addr(), received
}

func TestRelayJob(t *testing.T) {
	client, _, received := startService(t, `{"data": [{"VehicleName": "a"}, {"VehicleName": "b"}]}`)
	ctx := context.Background()

	accepted, err := client.Relay(ctx)
	if err != nil {
		t.Fatalf("Relay: %v", err)
	}
	if accepted.JobID == "" || accepted.Status != string(jobs.StatusPending) {
		t.Fatalf("Relay response, got: %+v", accepted)
	}

	select {
	case body := <-received:
		if string(body) != `[{"VehicleName": "a"}, {"VehicleName": "b"}]` {
			t.Errorf("sink body, got: %s", body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sink was not called")
	}

	var job jobs.Job
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err = client.Job(ctx, accepted.JobID)
		if err != nil {
			t.Fatalf("Job: %v", err)
		}
		if job.Status == jobs.StatusCompleted {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if job.Status != jobs.StatusCompleted {
		t.Fatalf("job status, got: %s, expected: %s", job.Status, jobs.StatusCompleted)
	}
	if job.VehicleCount != 2 || job.SinkStatus != http.StatusCreated || job.SinkResponse != "OK" {
		t.Errorf("job result, got: %+v", job)
	}

	list, err := client.Jobs(ctx)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(list) != 1 || list[0].ID != accepted.JobID {
		t.Errorf("Jobs, got: %+v", list)
	}
}

func TestHandlers(t *testing.T) {
	client, addr, _ := startService(t, `{"data": []}`)
	ctx := context.Background()

	health, err := client.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("health status, got: %s", health.Status)
	}

	_, err = client.Job(ctx, "missing")
	var statusErr *integration.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Errorf("unknown job, got: %v, expected status %d", err, http.StatusNotFound)
	}

	tests := []struct {
		name     string
		method   string
		path     string
		expected int
	}{
		{name: "relay_get", method: http.MethodGet, path: "/v1/vehicle/relay", expected: http.StatusMethodNotAllowed},
		{name: "jobs_post", method: http.MethodPost, path: "/v1/jobs", expected: http.StatusMethodNotAllowed},
		{name: "metrics_unregistered", method: http.MethodGet, path: "/metrics", expected: http.StatusNotFound},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req, err := http.NewRequest(test.method, "http://"+addr+test.path, nil)
			if err != nil {
				t.Fatalf("create request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("send request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != test.expected {
				t.Errorf("status, got: %d, expected: %d", resp.StatusCode, test.expected)
			}
		})
	}
}
