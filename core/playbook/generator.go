// Package playbook builds timed, owner-assigned response plans for incidents.
package playbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cryptonique0/cecd/core/model"
)

// FallbackOwner owns a step nobody else can take.
const FallbackOwner = "Ops Lead"

// Generator produces playbooks. It holds no mutable state and is safe for
// concurrent use.
type Generator struct {
	profiles Profiles
	now      func() time.Time
	newID    func() string
}

// Option customises a Generator.
type Option func(*Generator)

// WithProfiles replaces the duration profiles.
func WithProfiles(p Profiles) Option {
	return func(g *Generator) {
		if len(p) > 0 {
			g.profiles = p
		}
	}
}

// WithClock sets the generation time source.
func WithClock(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

// WithIDs sets the plan and step id source.
func WithIDs(newID func() string) Option { return func(g *Generator) { g.newID = newID } }

// NewGenerator returns a Generator with DefaultProfiles and uuid ids.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		profiles: DefaultProfiles,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns the four-step plan for inc. Owners come from squad, then
// from responders already assigned to the incident, then from pool. Resource
// gaps are the required skills held by no responder in pool. Generate works
// for any incident status; it never mutates its inputs.
func (g *Generator) Generate(inc model.Incident, pool []model.Responder, squad []model.SquadMember) model.PlaybookPlan {
	start := g.now()
	durations := g.profiles.For(inc.Severity)
	assigned := assignedResponders(inc, pool)

	plan := model.PlaybookPlan{
		ID:          g.newID(),
		IncidentID:  inc.ID,
		GeneratedAt: start,
		Steps:       make([]model.PlaybookStep, 0, len(Steps)),
	}
	due := start
	for i, tpl := range Steps {
		due = due.Add(time.Duration(durations[i]) * time.Minute)
		plan.Steps = append(plan.Steps, model.PlaybookStep{
			ID:                g.newID(),
			Title:             tpl.Title,
			Owner:             resolveOwner(tpl.Skills, squad, assigned, pool),
			RequiredSkills:    append([]string(nil), tpl.Skills...),
			RequiredResources: append([]string(nil), tpl.Resources...),
			ExpectedMinutes:   durations[i],
			DueAt:             due,
			Status:            model.StepPending,
		})
	}
	plan.RequiredSkills = RequiredSkills()
	plan.ResourceGaps = Gaps(plan.RequiredSkills, pool)
	plan.Summary = summary(inc, squad)
	return plan
}

// RequiredSkills returns the union of template skills in step order.
func RequiredSkills() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range Steps {
		for _, sk := range s.Skills {
			if !seen[sk] {
				seen[sk] = true
				out = append(out, sk)
			}
		}
	}
	return out
}

// Gaps returns the skills of required that no responder in pool holds, in
// required order. The result is empty, not nil, when everything is covered.
func Gaps(required []string, pool []model.Responder) []string {
	held := make(map[string]bool)
	for _, r := range pool {
		for _, s := range r.Skills {
			held[s] = true
		}
	}
	gaps := []string{}
	for _, s := range required {
		if !held[s] {
			gaps = append(gaps, s)
		}
	}
	return gaps
}

func assignedResponders(inc model.Incident, pool []model.Responder) []model.Responder {
	if len(inc.AssignedResponderIDs) == 0 {
		return nil
	}
	byID := make(map[string]model.Responder, len(pool))
	for _, r := range pool {
		if _, ok := byID[r.ID]; !ok {
			byID[r.ID] = r
		}
	}
	var out []model.Responder
	for _, id := range inc.AssignedResponderIDs {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

func resolveOwner(skills []string, squad []model.SquadMember, assigned, pool []model.Responder) string {
	for _, m := range squad {
		if m.HasAnySkill(skills) {
			return m.Name
		}
	}
	for _, r := range assigned {
		if r.HasAnySkill(skills) {
			return r.Name
		}
	}
	for _, r := range pool {
		if r.HasAnySkill(skills) {
			return r.Name
		}
	}
	switch {
	case len(squad) > 0:
		return squad[0].Name
	case len(assigned) > 0:
		return assigned[0].Name
	case len(pool) > 0:
		return pool[0].Name
	}
	return FallbackOwner
}

func summary(inc model.Incident, squad []model.SquadMember) string {
	name := inc.Title
	if name == "" {
		name = inc.ID
	}
	s := fmt.Sprintf("%s severity response for %q", inc.Severity, name)
	if inc.LocationName != "" {
		s += " at " + inc.LocationName
	}
	s += "."
	if len(squad) > 0 {
		names := make([]string, 0, len(squad))
		for _, m := range squad {
			names = append(names, m.Name)
		}
		s += " Squad: " + strings.Join(names, ", ") + "."
	}
	return s
}
