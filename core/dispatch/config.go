package dispatch

import (
	"fmt"

	"github.com/cryptonique0/cecd/core/factory"
	"github.com/cryptonique0/cecd/core/routing"
)

// DefaultMaxSuggestions caps a suggestion batch. Config may lower the cap,
// never raise it.
const DefaultMaxSuggestions = 6

// Config defines dispatch-related settings.
type Config struct {
	SpeedKmh       float64              `json:"speed_kmh"`
	MaxSuggestions int                  `json:"max_suggestions"`
	Environment    factory.ModuleConfig `json:"environment"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.SpeedKmh == 0 {
		c.SpeedKmh = routing.DefaultSpeedKmh
	}
	if c.MaxSuggestions == 0 {
		c.MaxSuggestions = DefaultMaxSuggestions
	}
	if c.Environment.Type == "" {
		c.Environment.Type = "random"
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.SpeedKmh < 0 {
		return fmt.Errorf("dispatch: negative speed_kmh %v", c.SpeedKmh)
	}
	if c.MaxSuggestions < 0 || c.MaxSuggestions > DefaultMaxSuggestions {
		return fmt.Errorf("dispatch: max_suggestions %d outside [0,%d]", c.MaxSuggestions, DefaultMaxSuggestions)
	}
	return nil
}
