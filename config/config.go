// Package config loads the engine configuration from YAML or JSON files
// with K_ prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cryptonique0/cecd/core/dispatch"
	"github.com/cryptonique0/cecd/core/logistics"
	"github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/playbook"
	"github.com/cryptonique0/cecd/core/readiness"
	"github.com/cryptonique0/cecd/infra/mqtt"
)

type Config struct {
	HTTP      HTTPConfig       `json:"http"`
	Dispatch  dispatch.Config  `json:"dispatch"`
	Playbook  playbook.Config  `json:"playbook"`
	Readiness readiness.Config `json:"readiness"`
	Logistics logistics.Config `json:"logistics"`
	Metrics   metrics.Config   `json:"metrics"`
	Logging   LoggingConfig    `json:"logging"`
	MQTT      mqtt.Config      `json:"mqtt"`
	Sentry    SentryConfig     `json:"sentry"`
}

// Load reads path, applies environment overrides such as
// K_DISPATCH__MAX_SUGGESTIONS=3, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	c.Dispatch.SetDefaults()
	c.Logistics.SetDefaults()
	if c.Readiness.SampleSize == 0 {
		c.Readiness.SampleSize = readiness.DefaultSampleSize
	}
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Dispatch.Validate(); err != nil {
		return err
	}
	if err := c.Playbook.Validate(); err != nil {
		return err
	}
	if c.Readiness.SampleSize < 0 {
		return fmt.Errorf("readiness: negative sample_size")
	}
	if c.Logistics.ResupplyThreshold > 100 {
		return fmt.Errorf("logistics: resupply_threshold above 100")
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	for kind, q := range c.MQTT.QoS {
		if q > 2 {
			return fmt.Errorf("mqtt: invalid qos %d for %s", q, kind)
		}
	}
	return c.Sentry.Validate()
}

// MQTTEnabled reports whether a broker is configured.
func (c Config) MQTTEnabled() bool { return c.MQTT.Broker != "" }
