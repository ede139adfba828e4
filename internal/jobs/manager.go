package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/relay"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID           string     `json:"id"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Error        string     `json:"error,omitempty"`
	VehicleCount int        `json:"vehicle_count,omitempty"`
	SinkStatus   int        `json:"sink_status,omitempty"`
	SinkResponse string     `json:"sink_response,omitempty"`
}

type Runner interface {
	Run(context.Context) (relay.Result, error)
}

type ProvideFn = func(context.Context) (*Manager, error)

type Option func(*Manager)

// WithTTL sets how long finished jobs stay visible.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// New returns a job manager. Jobs run on contexts derived from ctx, so
// canceling ctx aborts running jobs.
func New(ctx context.Context, runner Runner, opts ...Option) (*Manager, error) {
	if runner == nil {
		return nil, fmt.Errorf("relay runner is not defined")
	}
	m := &Manager{
		ctx:    ctx,
		runner: runner,
		jobs:   make(map[string]*Job),
		ttl:    10 * time.Minute,
	}
	for _, f := range opts {
		f(m)
	}
	return m, nil
}

type Manager struct {
	mtx    sync.RWMutex
	wg     sync.WaitGroup
	ctx    context.Context
	runner Runner
	jobs   map[string]*Job
	ttl    time.Duration
	active int
}

// Create registers a pending job, starts it in the background and returns
// a copy of it.
func (m *Manager) Create() Job {
	job := &Job{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	m.mtx.Lock()
	m.jobs[job.ID] = job
	m.active++
	snapshot := *job
	m.mtx.Unlock()

	m.wg.Add(1)
	go m.process(job.ID)
	return snapshot
}

func (m *Manager) process(id string) {
	defer m.wg.Done()
	logger := logging.FromContext(m.ctx).With("job", id)
	ctx := logging.WithLogger(m.ctx, logger)

	m.update(id, func(j *Job) { j.Status = StatusRunning })
	logger.Debugf("job status updated to %s", StatusRunning)

	res, err := m.runner.Run(ctx)

	m.update(id, func(j *Job) {
		m.active--
		now := time.Now()
		j.CompletedAt = &now
		j.VehicleCount = res.VehicleCount
		j.SinkStatus = res.SinkStatus
		j.SinkResponse = res.SinkBody
		if err != nil {
			j.Status = StatusFailed
			j.Error = err.Error()
			return
		}
		j.Status = StatusCompleted
	})
	if err != nil {
		logger.Errorf("job failed: %v", err)
	} else {
		logger.Infof("job completed with %d vehicles", res.VehicleCount)
	}

	if m.ttl <= 0 {
		return
	}
	timer := time.NewTimer(m.ttl)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-m.ctx.Done():
	}
	m.mtx.Lock()
	delete(m.jobs, id)
	m.mtx.Unlock()
	logger.Debug("job cleaned up")
}

// Busy reports whether any job is pending or running.
func (m *Manager) Busy() bool {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.active > 0
}

func (m *Manager) update(id string, fn func(*Job)) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if job, ok := m.jobs[id]; ok {
		fn(job)
	}
}

func (m *Manager) Get(id string) (Job, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *job, nil
}

// List returns copies of all known jobs, oldest first.
func (m *Manager) List() []Job {
	m.mtx.RLock()
	out := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, *job)
	}
	m.mtx.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Wait blocks until every started job has finished and been cleaned up.
func (m *Manager) Wait() {
	m.wg.Wait()
}
