// Package export writes engine results as JSON, CSV or an HTML chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cryptonique0/cecd/core/model"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat validates a format flag.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSuggestionsCSV writes one row per suggestion.
func WriteSuggestionsCSV(w io.Writer, suggestions []model.DispatchSuggestion) error {
	header := []string{"incident_id", "incident_title", "location", "responder_id", "responder_name", "priority", "distance_km", "eta_minutes", "weather", "traffic"}
	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []string{
			s.IncidentID,
			s.IncidentTitle,
			s.Location,
			s.ResponderID,
			s.ResponderName,
			string(s.Priority),
			formatFloat(s.DistanceKm),
			strconv.Itoa(s.ETAMinutes),
			riskFactor(s.Route, 0),
			riskFactor(s.Route, 1),
		})
	}
	return writeCSV(w, header, rows)
}

// WriteReadinessCSV writes one row per region. Skill gaps are joined with
// "|".
func WriteReadinessCSV(w io.Writer, records []model.ReadinessRecord) error {
	header := []string{"region", "avg_response_minutes", "closure_rate", "skill_gaps", "score"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Region,
			formatFloat(r.AvgResponseMinutes),
			formatFloat(r.ClosureRate),
			strings.Join(r.SkillGaps, "|"),
			formatFloat(r.Score),
		})
	}
	return writeCSV(w, header, rows)
}

// WriteShortagesCSV writes one row per region.
func WriteShortagesCSV(w io.Writer, forecasts []model.ShortageForecast) error {
	rows := make([][]string, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, []string{f.Region, strings.Join(f.Shortages, "|")})
	}
	return writeCSV(w, []string{"region", "shortages"}, rows)
}

// WritePlaybookCSV writes one row per playbook step.
func WritePlaybookCSV(w io.Writer, plan model.PlaybookPlan) error {
	rows := make([][]string, 0, len(plan.Steps))
	for i, s := range plan.Steps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Title,
			s.Owner,
			strconv.Itoa(s.ExpectedMinutes),
			s.DueAt.Format(time.RFC3339),
			strings.Join(s.RequiredSkills, "|"),
		})
	}
	return writeCSV(w, []string{"step", "title", "owner", "expected_minutes", "due_at", "required_skills"}, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func riskFactor(r model.RoutePlan, i int) string {
	if i < len(r.RiskFactors) {
		return r.RiskFactors[i]
	}
	return ""
}
