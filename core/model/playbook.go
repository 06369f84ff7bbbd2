package model

import "time"

// StepStatus tracks the progress of a playbook step.
type StepStatus string

const (
	StepPending    StepStatus = "Pending"
	StepInProgress StepStatus = "InProgress"
	StepDone       StepStatus = "Done"
	StepBlocked    StepStatus = "Blocked"
)

// PlaybookStep is one timed, owner-assigned action of a response plan.
type PlaybookStep struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Owner             string     `json:"owner"`
	RequiredSkills    []string   `json:"requiredSkills"`
	RequiredResources []string   `json:"requiredResources"`
	ExpectedMinutes   int        `json:"expectedMinutes"`
	DueAt             time.Time  `json:"dueAt"`
	Status            StepStatus `json:"status"`
}

// PlaybookPlan is the ordered response plan for one incident.
type PlaybookPlan struct {
	ID             string         `json:"id"`
	IncidentID     string         `json:"incidentId"`
	GeneratedAt    time.Time      `json:"generatedAt"`
	Steps          []PlaybookStep `json:"steps"`
	RequiredSkills []string       `json:"requiredSkills"`
	ResourceGaps   []string       `json:"resourceGaps"`
	Summary        string         `json:"summary"`
}

// RequiredResources returns the union of resource labels across steps, in
// step order.
func (p PlaybookPlan) RequiredResources() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range p.Steps {
		for _, r := range s.RequiredResources {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}
