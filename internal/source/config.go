package source

import (
	"time"

	"github.com/go-sod/vrelay/internal/httputil"
)

type Config struct {
	URL            string             `envconfig:"VRELAY_SOURCE_URL" default:"http://133.18.115.234:8080/v1/vehicle/data"`
	BearerToken    string             `envconfig:"VRELAY_SOURCE_BEARER_TOKEN"`
	BasicAuth      httputil.BasicAuth `envconfig:"VRELAY_SOURCE_BASIC_AUTH"`
	RequestTimeout time.Duration      `envconfig:"VRELAY_SOURCE_REQUEST_TIMEOUT" default:"0s"`
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
