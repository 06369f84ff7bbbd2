package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recorder struct {
	errs []error
	tags []map[string]string
}

func (r *recorder) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recorder) Recover()            {}
func (r *recorder) Flush(time.Duration) {}

func TestCaptureRejected(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})

	CaptureRejected("matcher", "incident", errors.New("missing id"))
	CaptureException(nil, nil)

	if len(rec.errs) != 1 {
		t.Fatalf("expected 1 report got %d", len(rec.errs))
	}
	if rec.tags[0]["component"] != "matcher" || rec.tags[0]["record"] != "incident" {
		t.Fatalf("unexpected tags %v", rec.tags[0])
	}
}

func TestInitIgnoresNil(t *testing.T) {
	Init(nil)
	if _, ok := get().(NopMonitor); !ok {
		t.Fatalf("expected NopMonitor")
	}
}
