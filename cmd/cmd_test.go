package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonique0/cecd/core/model"
)

const testSnapshot = `as_of: 2024-05-01T12:00:00Z
incidents:
  - id: fire
    title: Warehouse fire
    severity: Critical
    location_name: Harbor
    latitude: 0
    longitude: 0.1
  - id: leak
    title: Gas leak
    severity: Low
    location_name: Harbor
    latitude: 0
    longitude: 0.2
    description: probably a hoax
responders:
  - id: r1
    name: Asha
    status: Available
    location: Harbor
    latitude: 0
    longitude: 0
    trust_score: 70
assets:
  - id: t1
    name: Tanker
    type: FuelTruck
    location: Harbor
    fuel_percent: 12
    latitude: 0
    longitude: 0.05
trust:
  r1:
    - label: missions
      value: 90
      half_life_hours: 0
      weight: 1
      signal: MissionCompletion
      last_updated: 2024-04-30T12:00:00Z
`

const testConfig = `logging:
  backend: none
dispatch:
  environment:
    type: fixed
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := writeFile(t, "config.yaml", testConfig)
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSuggest(t *testing.T) {
	snap := writeFile(t, "snap.yaml", testSnapshot)

	out, err := run(t, "suggest", "-f", snap)
	require.NoError(t, err)
	var sugs []model.DispatchSuggestion
	require.NoError(t, json.Unmarshal([]byte(out), &sugs))
	require.Len(t, sugs, 2)
	assert.Equal(t, "fire", sugs[0].IncidentID)
	assert.Equal(t, model.PriorityCritical, sugs[0].Priority)
	assert.Equal(t, "leak", sugs[1].IncidentID)

	out, err = run(t, "suggest", "-f", snap, "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "incident_id,"))

	_, err = run(t, "suggest", "-f", snap, "--format", "html")
	assert.ErrorContains(t, err, "not supported")
}

func TestQuery_MissingOrBadFlags(t *testing.T) {
	_, err := run(t, "suggest")
	assert.Error(t, err)

	snap := writeFile(t, "snap.yaml", testSnapshot)
	_, err = run(t, "readiness", "-f", snap, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "readiness", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPlaybook(t *testing.T) {
	snap := writeFile(t, "snap.yaml", testSnapshot)

	out, err := run(t, "playbook", "-f", snap, "--incident", "fire")
	require.NoError(t, err)
	var plan model.PlaybookPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "fire", plan.IncidentID)
	assert.Len(t, plan.Steps, 4)

	out, err = run(t, "playbook", "-f", snap)
	require.NoError(t, err)
	var plans []model.PlaybookPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	assert.Len(t, plans, 2)

	_, err = run(t, "playbook", "-f", snap, "--format", "csv")
	assert.ErrorContains(t, err, "--incident")

	out, err = run(t, "playbook", "-f", snap, "--incident", "fire", "--format", "csv")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 5)

	_, err = run(t, "playbook", "-f", snap, "--incident", "nope")
	assert.ErrorContains(t, err, "not in snapshot")
}

func TestReadinessAndAnomalies(t *testing.T) {
	snap := writeFile(t, "snap.yaml", testSnapshot)

	out, err := run(t, "readiness", "-f", snap)
	require.NoError(t, err)
	var recs []model.ReadinessRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Harbor", recs[0].Region)

	out, err = run(t, "readiness", "-f", snap, "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "Harbor")
	assert.Contains(t, out, "<html")

	out, err = run(t, "anomalies", "-f", snap)
	require.NoError(t, err)
	var flagged []model.AnomalyRecord
	require.NoError(t, json.Unmarshal([]byte(out), &flagged))
	require.Len(t, flagged, 1)
	assert.Equal(t, "leak", flagged[0].IncidentID)
}

func TestForecast(t *testing.T) {
	snap := writeFile(t, "snap.yaml", testSnapshot)

	out, err := run(t, "forecast", "-f", snap)
	require.NoError(t, err)
	var res forecastOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Shortages, 1)
	assert.Equal(t, "Harbor", res.Shortages[0].Region)
	require.Len(t, res.Resupply, 1)
	assert.Equal(t, "t1", res.Resupply[0].AssetID)
	assert.Equal(t, "fire", res.Resupply[0].ToIncidentID)

	out, err = run(t, "forecast", "-f", snap, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "region,shortages"))
}

func TestTrust(t *testing.T) {
	snap := writeFile(t, "snap.yaml", testSnapshot)

	out, err := run(t, "trust", "-f", snap, "--responder", "r1")
	require.NoError(t, err)
	var p model.TrustProfile
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "r1", p.ResponderID)
	// MissionCompletion takes its 72h half-life: 90 * 0.5^(24/72)
	assert.Equal(t, 71, p.Score)
	require.Len(t, p.Components, 1)
	assert.Equal(t, 72.0, p.Components[0].HalfLifeHours)

	_, err = run(t, "trust", "-f", snap, "--responder", "ghost")
	assert.Error(t, err)

	_, err = run(t, "trust", "-f", snap, "--format", "csv")
	assert.ErrorContains(t, err, "not supported")
}

func TestLoadConfig(t *testing.T) {
	o := &rootOptions{}
	cfg, err := o.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Dispatch.MaxSuggestions)

	o.cfgPath = writeFile(t, "bad.toml", "x = 1")
	_, err = o.loadConfig()
	assert.ErrorContains(t, err, "load config")
}
