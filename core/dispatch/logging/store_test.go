package logging

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cryptonique0/cecd/core/model"
)

func sampleRecord(ts time.Time) LogRecord {
	return LogRecord{
		Timestamp:   ts,
		IncidentIDs: []string{"inc-1", "inc-2"},
		Responders:  3,
		Suggestions: []model.DispatchSuggestion{
			{IncidentID: "inc-1", ResponderID: "r1", Priority: model.PriorityCritical, ETAMinutes: 5},
			{IncidentID: "inc-2", ResponderID: "r2", Priority: model.PriorityMedium, ETAMinutes: 20},
		},
	}
}

func TestLogQuery_Matches(t *testing.T) {
	now := time.Now()
	rec := sampleRecord(now)
	tests := []struct {
		name string
		q    LogQuery
		want bool
	}{
		{"empty", LogQuery{}, true},
		{"before start", LogQuery{Start: now.Add(time.Minute)}, false},
		{"after end", LogQuery{End: now.Add(-time.Minute)}, false},
		{"incident", LogQuery{IncidentID: "inc-2"}, true},
		{"unknown incident", LogQuery{IncidentID: "inc-9"}, false},
		{"responder", LogQuery{ResponderID: "r1"}, true},
		{"responder and priority", LogQuery{ResponderID: "r1", Priority: model.PriorityCritical}, true},
		{"responder wrong priority", LogQuery{ResponderID: "r1", Priority: model.PriorityMedium}, false},
		{"priority only", LogQuery{Priority: model.PriorityHigh}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Matches(rec); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONLStore_AppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.jsonl")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	now := time.Now()
	if err := store.Append(ctx, sampleRecord(now.Add(-time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, sampleRecord(now)); err != nil {
		t.Fatalf("append: %v", err)
	}
	all, err := store.Query(ctx, LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	recent, err := store.Query(ctx, LogQuery{Start: now.Add(-time.Minute), ResponderID: "r2"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recent) != 1 || len(recent[0].Suggestions) != 2 {
		t.Fatalf("unexpected filtered result: %+v", recent)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		opts Options
		want string
	}{
		{Options{Path: filepath.Join(dir, "a.jsonl")}, "*logging.JSONLStore"},
		{Options{Backend: "jsonl", Path: filepath.Join(dir, "b.jsonl"), MaxSizeMB: 1}, "*logging.RotatingJSONLStore"},
		{Options{Backend: "jsonl_rotating", Path: filepath.Join(dir, "d.jsonl")}, "*logging.RotatingJSONLStore"},
		{Options{Backend: "sqlite", Path: filepath.Join(dir, "c.db")}, "*logging.SQLiteStore"},
		{Options{Backend: "none"}, "logging.NopStore"},
	}
	for _, c := range cases {
		s, err := Open(c.opts)
		if err != nil {
			t.Fatalf("open %s: %v", c.opts.Backend, err)
		}
		if got := typeName(s); got != c.want {
			t.Errorf("backend %q: got %s want %s", c.opts.Backend, got, c.want)
		}
		_ = s.Close()
	}
	if _, err := Open(Options{Backend: "kafka"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *JSONLStore:
		return "*logging.JSONLStore"
	case *RotatingJSONLStore:
		return "*logging.RotatingJSONLStore"
	case *SQLiteStore:
		return "*logging.SQLiteStore"
	case NopStore:
		return "logging.NopStore"
	}
	return "unknown"
}
