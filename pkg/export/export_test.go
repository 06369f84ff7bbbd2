package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonique0/cecd/core/model"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func readCSV(t *testing.T, b *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(b).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSuggestionsCSV(t *testing.T) {
	var buf bytes.Buffer
	s := model.DispatchSuggestion{
		IncidentID:  "inc-1",
		Location:    "Lima, Peru",
		ResponderID: "r1",
		Priority:    model.PriorityCritical,
		DistanceKm:  4.2,
		ETAMinutes:  6,
		Route:       model.RoutePlan{RiskFactors: []string{"Rain", "Heavy"}},
	}
	require.NoError(t, WriteSuggestionsCSV(&buf, []model.DispatchSuggestion{s}))
	rows := readCSV(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, "incident_id", rows[0][0])
	assert.Equal(t, []string{"inc-1", "", "Lima, Peru", "r1", "", "Critical", "4.2", "6", "Rain", "Heavy"}, rows[1])
}

func TestWriteReadinessCSV(t *testing.T) {
	var buf bytes.Buffer
	rec := model.ReadinessRecord{Region: "Pune", AvgResponseMinutes: 14, ClosureRate: 0.5, SkillGaps: []string{"Medic", "Driver"}, Score: 0.45}
	require.NoError(t, WriteReadinessCSV(&buf, []model.ReadinessRecord{rec}))
	rows := readCSV(t, &buf)
	assert.Equal(t, []string{"Pune", "14", "0.5", "Medic|Driver", "0.45"}, rows[1])
}

func TestWriteShortagesAndPlaybookCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteShortagesCSV(&buf, []model.ShortageForecast{{Region: "Quito", Shortages: []string{"Fuel"}}}))
	assert.Equal(t, []string{"Quito", "Fuel"}, readCSV(t, &buf)[1])

	buf.Reset()
	due := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	plan := model.PlaybookPlan{Steps: []model.PlaybookStep{{Title: "Stabilize and triage", Owner: "Ops Lead", ExpectedMinutes: 5, DueAt: due}}}
	require.NoError(t, WritePlaybookCSV(&buf, plan))
	assert.Equal(t, []string{"1", "Stabilize and triage", "Ops Lead", "5", "2024-01-01T10:00:00Z", ""}, readCSV(t, &buf)[1])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []model.ShortageForecast{{Region: "A", Shortages: []string{}}}))
	var out []model.ShortageForecast
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "A", out[0].Region)
}

func TestWriteReadinessChart(t *testing.T) {
	var buf bytes.Buffer
	recs := []model.ReadinessRecord{{Region: "Dhaka", Score: 0.62}, {Region: "Kano", Score: 0.13}}
	require.NoError(t, WriteReadinessChart(&buf, recs))
	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"))
	assert.Contains(t, html, "Dhaka")
	assert.Contains(t, html, "Regional readiness")
}
