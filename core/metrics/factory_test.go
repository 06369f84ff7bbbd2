package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/cryptonique0/cecd/core/factory"
	"github.com/cryptonique0/cecd/core/model"
)

type countingSink struct {
	suggestions int
	readiness   int
	fail        bool
}

func (c *countingSink) RecordSuggestions(time.Time, []model.DispatchSuggestion) error {
	c.suggestions++
	if c.fail {
		return errors.New("boom")
	}
	return nil
}

func (c *countingSink) RecordReadiness(time.Time, []model.ReadinessRecord) error {
	c.readiness++
	return nil
}

func TestNewMetricsSink(t *testing.T) {
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	if err != nil {
		t.Fatalf("multi: %v", err)
	}
	ms, ok := s.(*MultiSink)
	if !ok || len(ms.Sinks) != 2 {
		t.Fatalf("expected MultiSink with two sinks, got %#v", s)
	}
	if _, err := NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestMultiSink_ForwardsAndJoinsErrors(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{fail: true}
	m := NewMultiSink(a, b, NopSink{})
	if err := m.RecordSuggestions(time.Now(), nil); err == nil {
		t.Fatal("expected joined error")
	}
	if a.suggestions != 1 || b.suggestions != 1 {
		t.Fatalf("suggestions not forwarded to every sink")
	}
	if err := m.RecordReadiness(time.Now(), nil); err != nil {
		t.Fatalf("readiness: %v", err)
	}
	if a.readiness != 1 || b.readiness != 1 {
		t.Fatalf("readiness not forwarded")
	}
	if err := m.RecordAnomalies(time.Now(), nil); err != nil {
		t.Fatalf("anomalies: %v", err)
	}
}
