// Package scenarios replays YAML operational snapshots through the whole
// engine and checks the outcome.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cryptonique0/cecd/pkg/snapshot"
)

// Environment pins the route conditions of a scenario.
type Environment struct {
	Weather string `yaml:"weather"`
	Traffic string `yaml:"traffic"`
}

type SuggestionDef struct {
	Incident  string `yaml:"incident"`
	Responder string `yaml:"responder"`
	Priority  string `yaml:"priority"`
}

type ResupplyDef struct {
	Asset    string `yaml:"asset"`
	Incident string `yaml:"incident"`
}

// Expected lists the checked outcomes. Nil sections are not checked.
type Expected struct {
	Suggestions          []SuggestionDef     `yaml:"suggestions"`
	Skipped              int                 `yaml:"skipped"`
	PublishedSuggestions *int                `yaml:"published_suggestions"`
	Anomalies            []string            `yaml:"anomalies"`
	Shortages            map[string][]string `yaml:"shortages"`
	Resupply             []ResupplyDef       `yaml:"resupply"`
	Readiness            map[string]float64  `yaml:"readiness"`
	Trust                map[string]int      `yaml:"trust"`
}

type Scenario struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description,omitempty"`
	Environment    Environment       `yaml:"environment"`
	MaxSuggestions int               `yaml:"max_suggestions,omitempty"`
	FailPublish    []string          `yaml:"fail_publish,omitempty"`
	Snapshot       snapshot.Snapshot `yaml:"snapshot"`
	Expected       Expected          `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
