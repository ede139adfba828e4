package sink

import (
	"time"

	"github.com/go-sod/vrelay/internal/httputil"
)

type Config struct {
	URL            string             `envconfig:"VRELAY_SINK_URL" default:"https://hono-api.mtamaramu.com/api/dtakologs"`
	ContentType    string             `envconfig:"VRELAY_SINK_CONTENT_TYPE" default:"application/json"`
	BearerToken    string             `envconfig:"VRELAY_SINK_BEARER_TOKEN"`
	BasicAuth      httputil.BasicAuth `envconfig:"VRELAY_SINK_BASIC_AUTH"`
	RequestTimeout time.Duration      `envconfig:"VRELAY_SINK_REQUEST_TIMEOUT" default:"0s"`
}

func (c *Config) HTTPClientConfig() httputil.HTTPClientConfig {
	cfg := httputil.HTTPClientConfig{
		BearerToken:    c.BearerToken,
		RequestTimeout: c.RequestTimeout,
	}
	if c.BasicAuth.Username != "" {
		auth := c.BasicAuth
		cfg.BasicAuth = &auth
	}
	return cfg
}
