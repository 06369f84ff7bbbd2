package config

import "fmt"

// HTTPConfig configures the JSON API and the metrics endpoint.
type HTTPConfig struct {
	// Address the API listens on. Empty disables the API.
	Address string `json:"address"`
	// AuthToken, when set, is required as a bearer token on every route.
	AuthToken string `json:"auth_token"`
	// MetricsAddress serves /metrics. Empty disables it.
	MetricsAddress string `json:"metrics_address"`
	// ReadTimeoutSeconds bounds request reads.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 10
	}
}

// Validate checks the timeouts.
func (c HTTPConfig) Validate() error {
	if c.ReadTimeoutSeconds < 0 {
		return fmt.Errorf("http: negative read_timeout_seconds")
	}
	if c.Address != "" && c.Address == c.MetricsAddress {
		return fmt.Errorf("http: api and metrics cannot share %s", c.Address)
	}
	return nil
}
