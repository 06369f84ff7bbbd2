package playbook

import (
	"fmt"

	"github.com/cryptonique0/cecd/core/model"
)

// StepTemplate is one fixed step of every playbook.
type StepTemplate struct {
	Title     string
	Skills    []string
	Resources []string
}

// Steps is the four-step response template, in execution order.
var Steps = [4]StepTemplate{
	{Title: "Stabilize and triage", Skills: []string{"First Aid", "Medic"}, Resources: []string{"Medkit", "Vitals monitor"}},
	{Title: "Secure perimeter and hazards", Skills: []string{"Security", "Logistics"}, Resources: []string{"Barricades", "Cones", "Radio"}},
	{Title: "Deploy response and route support", Skills: []string{"Search & Rescue", "Driver"}, Resources: []string{"Vehicle", "Fuel", "Thermal camera"}},
	{Title: "Comms + handoff", Skills: []string{"Communication", "Coordination"}, Resources: []string{"Satellite comms", "Power"}},
}

// Durations holds the expected minutes of each template step.
type Durations [4]int

// Profiles maps a severity to its step durations.
type Profiles map[model.Severity]Durations

// DefaultProfiles: Critical is fastest, Low slowest.
var DefaultProfiles = Profiles{
	model.SeverityCritical: {5, 10, 15, 20},
	model.SeverityHigh:     {8, 15, 20, 25},
	model.SeverityMedium:   {10, 20, 30, 35},
	model.SeverityLow:      {15, 30, 45, 60},
}

// For returns the durations of s, falling back to the Medium profile.
func (p Profiles) For(s model.Severity) Durations {
	if d, ok := p[s]; ok {
		return d
	}
	if d, ok := p[model.SeverityMedium]; ok {
		return d
	}
	return DefaultProfiles[model.SeverityMedium]
}

// Config overrides duration profiles by severity name.
type Config struct {
	Durations map[string][]int `json:"durations"`
}

// Profiles merges the overrides into DefaultProfiles.
func (c Config) Profiles() (Profiles, error) {
	out := make(Profiles, len(DefaultProfiles))
	for k, v := range DefaultProfiles {
		out[k] = v
	}
	for name, mins := range c.Durations {
		sev, err := model.ParseSeverity(name)
		if err != nil {
			return nil, fmt.Errorf("playbook: %w", err)
		}
		if len(mins) != len(Steps) {
			return nil, fmt.Errorf("playbook: %s profile needs %d durations, got %d", name, len(Steps), len(mins))
		}
		var d Durations
		for i, m := range mins {
			if m <= 0 {
				return nil, fmt.Errorf("playbook: %s duration %d must be positive", name, i+1)
			}
			d[i] = m
		}
		out[sev] = d
	}
	return out, nil
}

// Validate checks the overrides.
func (c Config) Validate() error {
	_, err := c.Profiles()
	return err
}
