package httputil

import (
	"encoding/json"
	"fmt"
	"time"
)

type HTTPClientConfig struct {
	BasicAuth      *BasicAuth    `json:"basicAuth,omitempty"`
	BearerToken    string        `json:"bearerToken,omitempty"`
	RequestTimeout time.Duration `json:"-"`
}

func (c *HTTPClientConfig) Validate() error {
	if c.BasicAuth != nil && len(c.BearerToken) > 0 {
		return fmt.Errorf("at most one of basic_auth & bearer_token must be configured")
	}
	if c.BasicAuth != nil && c.BasicAuth.Username == "" {
		return fmt.Errorf("basic_auth requires a username")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative: %v", c.RequestTimeout)
	}
	return nil
}

type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// Decode lets envconfig read basic auth credentials from a JSON value.
func (b *BasicAuth) Decode(value string) error {
	var auth BasicAuth
	if err := json.Unmarshal([]byte(value), &auth); err != nil {
		return err
	}
	*b = auth
	return nil
}
