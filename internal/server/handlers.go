package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-sod/vrelay/internal/httputil"
	"github.com/go-sod/vrelay/internal/jobs"
	"github.com/go-sod/vrelay/internal/logging"
)

type JobManager interface {
	Create() jobs.Job
	Get(id string) (jobs.Job, error)
	List() []jobs.Job
}

// NewMux wires the service routes. A nil metrics handler leaves /metrics
// unregistered.
func NewMux(ctx context.Context, manager JobManager, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/v1/vehicle/relay", HandleRelay(ctx, manager))
	mux.Handle("/v1/jobs", HandleJobs(ctx, manager))
	mux.Handle("/v1/jobs/", HandleJobs(ctx, manager))
	mux.Handle("/health", HandleHealth(ctx))
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}
	return mux
}

// HandleRelay starts a background relay job and answers immediately.
func HandleRelay(ctx context.Context, manager JobManager) http.Handler {
	logger := logging.FromContext(ctx)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httputil.RespMethodNotAllowed(ctx, w, r)
			return
		}
		job := manager.Create()
		logger.Infof("relay job %s accepted", job.ID)
		httputil.RespJSON(ctx, w, http.StatusAccepted, map[string]string{
			"job_id": job.ID,
			"status": string(job.Status),
		})
	})
}

// HandleJobs serves /v1/jobs (list) and /v1/jobs/{id}.
func HandleJobs(ctx context.Context, manager JobManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.RespMethodNotAllowed(ctx, w, r)
			return
		}
		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/jobs"), "/")
		if id == "" {
			httputil.RespJSON(ctx, w, http.StatusOK, manager.List())
			return
		}
		job, err := manager.Get(id)
		if errors.Is(err, jobs.ErrNotFound) {
			httputil.RespError(ctx, w, http.StatusNotFound, "job %s not found", id)
			return
		}
		if err != nil {
			httputil.RespInternalError(ctx, w, "unable get job %s: %v", id, err)
			return
		}
		httputil.RespJSON(ctx, w, http.StatusOK, job)
	})
}

func HandleHealth(ctx context.Context) http.Handler {
	started := time.Now()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespJSON(ctx, w, http.StatusOK, map[string]string{
			"status": "ok",
			"uptime": time.Since(started).Round(time.Second).String(),
		})
	})
}
