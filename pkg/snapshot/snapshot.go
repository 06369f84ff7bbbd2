// Package snapshot loads the engine input records (incidents, responders,
// assets, squad and trust signals) from YAML or JSON documents.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cryptonique0/cecd/core/model"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Snapshot is a point-in-time view of the operational state.
type Snapshot struct {
	// AsOf, when set, is the evaluation time of trust decay.
	AsOf       *time.Time          `json:"asOf,omitempty" yaml:"as_of,omitempty"`
	Incidents  []model.Incident    `json:"incidents" yaml:"incidents"`
	Responders []model.Responder   `json:"responders" yaml:"responders"`
	Assets     []model.Asset       `json:"assets" yaml:"assets"`
	Squad      []model.SquadMember `json:"squad" yaml:"squad"`
	// Trust maps responder ids to their raw trust signals.
	Trust map[string][]model.TrustComponent `json:"trust" yaml:"trust"`
}

// FormatFor infers the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported snapshot format: %s", filepath.Ext(path))
}

// Load reads a snapshot file.
func Load(path string) (*Snapshot, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return s, nil
}

// Decode reads a snapshot from r. An empty document yields an empty
// snapshot.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	var s Snapshot
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&s)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&s)
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", format)
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	return &s, nil
}

// Responder returns the responder with id.
func (s *Snapshot) Responder(id string) (model.Responder, bool) {
	for _, r := range s.Responders {
		if r.ID == id {
			return r, true
		}
	}
	return model.Responder{}, false
}

// Incident returns the incident with id.
func (s *Snapshot) Incident(id string) (model.Incident, bool) {
	for _, inc := range s.Incidents {
		if inc.ID == id {
			return inc, true
		}
	}
	return model.Incident{}, false
}

// Now returns AsOf or the current time.
func (s *Snapshot) Now() time.Time {
	if s.AsOf != nil {
		return *s.AsOf
	}
	return time.Now()
}
