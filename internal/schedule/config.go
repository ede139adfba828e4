package schedule

import "time"

type Config struct {
	Interval  time.Duration `envconfig:"VRELAY_SCHEDULE_INTERVAL" default:"0s"`
	Immediate bool          `envconfig:"VRELAY_SCHEDULE_IMMEDIATE" default:"false"`
}

func (c *Config) Enabled() bool {
	return c.Interval > 0
}
