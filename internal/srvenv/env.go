package srvenv

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-sod/vrelay/internal/jobs"
	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/relay"
	"github.com/go-sod/vrelay/internal/schedule"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	relay     *relay.Procedure
	metrics   http.Handler
	jobs      jobs.ProvideFn
	scheduler schedule.ProvideFn
	closers   []io.Closer
}

func (s *SrvEnv) Relay() *relay.Procedure {
	return s.relay
}

func (s *SrvEnv) MetricsHandler() http.Handler {
	return s.metrics
}

func (s *SrvEnv) ProvideJobs() jobs.ProvideFn {
	return s.jobs
}

// ProvideScheduler is nil when no schedule interval is configured.
func (s *SrvEnv) ProvideScheduler() schedule.ProvideFn {
	return s.scheduler
}

func WithRelay(p *relay.Procedure) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.relay = p
		return s
	}
}

func WithMetricsHandler(h http.Handler) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.metrics = h
		return s
	}
}

func WithJobs(fn jobs.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.jobs = fn
		return s
	}
}

func WithScheduler(fn schedule.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.scheduler = fn
		return s
	}
}

// WithCloser registers a resource released by Close.
func WithCloser(c io.Closer) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.closers = append(s.closers, c)
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	logger := logging.FromContext(ctx)
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			logger.Errorf("closing resource: %v", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("close: %w", err)
			}
		}
	}
	return firstErr
}
