package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonique0/cecd/core/model"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `http:
  address: ":8080"
  auth_token: "secret"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  topic_prefix: "ops"
  qos:
    dispatch: 1
dispatch:
  speed_kmh: 45
  max_suggestions: 4
  environment:
    type: "fixed"
    conf:
      weather: "Clear"
      traffic: "Light"
playbook:
  durations:
    critical: [2, 4, 6, 4]
readiness:
  sample_size: 3
logistics:
  resupply_threshold: 25
metrics:
  sinks:
    - type: "nop"
logging:
  backend: "sqlite"
  path: "/tmp/dispatch.db"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"http.address", cfg.HTTP.Address, ":8080"},
		{"http.auth_token", cfg.HTTP.AuthToken, "secret"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"topic_prefix", cfg.MQTT.TopicPrefix, "ops"},
		{"qos", cfg.MQTT.QoS["dispatch"], byte(1)},
		{"speed", cfg.Dispatch.SpeedKmh, 45.0},
		{"max_suggestions", cfg.Dispatch.MaxSuggestions, 4},
		{"environment", cfg.Dispatch.Environment.Type, "fixed"},
		{"readiness.sample_size", cfg.Readiness.SampleSize, 3},
		{"logistics.threshold", cfg.Logistics.ResupplyThreshold, 25.0},
		{"logistics.sample_size", cfg.Logistics.SampleSize, 5},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.backend", cfg.Logging.Backend, "sqlite"},
		{"mqtt_enabled", cfg.MQTTEnabled(), true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	profiles, err := cfg.Playbook.Profiles()
	require.NoError(t, err)
	assert.Equal(t, 2, profiles[model.SeverityCritical][0])
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.json", `{}`))
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Dispatch.SpeedKmh)
	assert.Equal(t, 6, cfg.Dispatch.MaxSuggestions)
	assert.Equal(t, "random", cfg.Dispatch.Environment.Type)
	assert.Equal(t, "jsonl", cfg.Logging.Backend)
	assert.Equal(t, "dispatch.log", cfg.Logging.Path)
	assert.Equal(t, 30.0, cfg.Logistics.ResupplyThreshold)
	assert.False(t, cfg.MQTTEnabled())
	assert.Equal(t, *Default(), *cfg)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("K_DISPATCH__MAX_SUGGESTIONS", "2")
	cfg, err := Load(writeFile(t, "c.yaml", "dispatch:\n  max_suggestions: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Dispatch.MaxSuggestions)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct{ name, data string }{
		"format":      {"c.toml", ""},
		"backend":     {"c.yaml", "logging:\n  backend: kafka\n"},
		"qos":         {"c.yaml", "mqtt:\n  qos:\n    dispatch: 3\n"},
		"durations":   {"c.yaml", "playbook:\n  durations:\n    urgent: [1, 2, 3, 4]\n"},
		"sample rate": {"c.yaml", "sentry:\n  traces_sample_rate: 2\n"},
		"speed":       {"c.yaml", "dispatch:\n  speed_kmh: -1\n"},
		"cap":         {"c.yaml", "dispatch:\n  max_suggestions: 7\n"},
		"ports":       {"c.yaml", "http:\n  address: \":9000\"\n  metrics_address: \":9000\"\n"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, c.name, c.data))
			assert.Error(t, err)
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	c := LoggingConfig{Backend: "none"}
	c.SetDefaults()
	assert.Empty(t, c.Path)
	assert.NoError(t, c.Validate())

	c = LoggingConfig{Backend: "sqlite"}
	c.SetDefaults()
	assert.Equal(t, "dispatch.db", c.Path)
	assert.Equal(t, "sqlite", c.Options().Backend)
}
