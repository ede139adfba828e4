// Package schedule triggers relay jobs on a fixed interval.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sod/vrelay/internal/jobs"
	"github.com/go-sod/vrelay/internal/logging"
)

type Submitter interface {
	Create() jobs.Job
	Busy() bool
}

type ProvideFn = func(Submitter) (*Scheduler, error)

type Option func(*Scheduler)

func WithInterval(t time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = t
	}
}

// WithImmediate submits a job as soon as Run starts instead of waiting
// for the first tick.
func WithImmediate(v bool) Option {
	return func(s *Scheduler) {
		s.immediate = v
	}
}

func New(submitter Submitter, opts ...Option) (*Scheduler, error) {
	if submitter == nil {
		return nil, fmt.Errorf("job submitter is not defined")
	}
	s := &Scheduler{submitter: submitter}
	for _, f := range opts {
		f(s)
	}
	if s.interval <= 0 {
		return nil, fmt.Errorf("schedule interval must be positive: %v", s.interval)
	}
	return s, nil
}

type Scheduler struct {
	submitter Submitter
	interval  time.Duration
	immediate bool
}

// Run submits a job on every tick until ctx is done. A tick that finds a
// job still pending or running is dropped.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	logger.Infof("scheduling relay every %v", s.interval)

	if s.immediate {
		s.submit(ctx)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.submit(ctx)
		case <-ctx.Done():
			logger.Debug("schedule stopped")
			return nil
		}
	}
}

func (s *Scheduler) submit(ctx context.Context) {
	logger := logging.FromContext(ctx)
	if s.submitter.Busy() {
		logger.Warn("relay still in flight, skipping scheduled tick")
		return
	}
	job := s.submitter.Create()
	logger.Infof("scheduled relay job %s", job.ID)
}
