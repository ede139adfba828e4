package config

import (
	"github.com/go-sod/vrelay/internal/jobs"
	"github.com/go-sod/vrelay/internal/metrics"
	"github.com/go-sod/vrelay/internal/notify"
	"github.com/go-sod/vrelay/internal/relay"
	"github.com/go-sod/vrelay/internal/schedule"
	"github.com/go-sod/vrelay/internal/setup"
	"github.com/go-sod/vrelay/internal/sink"
	"github.com/go-sod/vrelay/internal/source"
)

var (
	_ setup.RelayConfigProvider    = (*Config)(nil)
	_ setup.NotifyConfigProvider   = (*Config)(nil)
	_ setup.RelayConfigProvider    = (*SrvConfig)(nil)
	_ setup.NotifyConfigProvider   = (*SrvConfig)(nil)
	_ setup.MetricsConfigProvider  = (*SrvConfig)(nil)
	_ setup.JobsConfigProvider     = (*SrvConfig)(nil)
	_ setup.ScheduleConfigProvider = (*SrvConfig)(nil)
)

// Config drives the one-shot relay.
type Config struct {
	Source source.Config
	Sink   sink.Config
	Relay  relay.Config
	Notify notify.Config
}

func (c *Config) SourceConfig() *source.Config {
	return &c.Source
}

func (c *Config) SinkConfig() *sink.Config {
	return &c.Sink
}

func (c *Config) RelayConfig() *relay.Config {
	return &c.Relay
}

func (c *Config) NotifyConfig() *notify.Config {
	return &c.Notify
}

// SrvConfig drives the relay service.
type SrvConfig struct {
	Config
	SrvAddr  string `envconfig:"VRELAY_ADDR" default:":8080"`
	Jobs     jobs.Config
	Schedule schedule.Config
	Metrics  metrics.Config
}

func (c *SrvConfig) JobsConfig() *jobs.Config {
	return &c.Jobs
}

func (c *SrvConfig) ScheduleConfig() *schedule.Config {
	return &c.Schedule
}

func (c *SrvConfig) MetricsConfig() *metrics.Config {
	return &c.Metrics
}
