package notify

type Config struct {
	RedisURL string `envconfig:"VRELAY_REDIS_URL"`
	Queue    string `envconfig:"VRELAY_REDIS_QUEUE" default:"vrelay_relay_events"`
}

func (c *Config) Enabled() bool {
	return c.RedisURL != ""
}
