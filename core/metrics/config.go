package metrics

import "github.com/cryptonique0/cecd/core/factory"

// Config lists the sinks to build. Each entry names a registered sink type
// ("nop", "prometheus", "influx") and its settings.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
