package jobs

import "time"

type Config struct {
	TTL time.Duration `envconfig:"VRELAY_JOB_TTL" default:"10m"`
}
