package mqtt

import (
	"context"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/cryptonique0/cecd/core/model"
	coremon "github.com/cryptonique0/cecd/core/monitoring"
)

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) Recover()            {}
func (r *recordMonitor) Flush(time.Duration) {}

func failingClient(t *testing.T, n int) *PahoClient {
	t.Helper()
	errs := make([]error, n)
	for i := range errs {
		errs[i] = fmt.Errorf("net fail")
	}
	mc := &mockClient{publishErrs: errs}
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
	cli, err := NewPahoClient(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return cli
}

func TestPublishSuggestionErrorCaptured(t *testing.T) {
	cli := failingClient(t, 4)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	err := cli.PublishSuggestion(context.Background(), model.DispatchSuggestion{IncidentID: "inc1", ResponderID: "r1"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["incident_id"] != "inc1" || mon.tags["responder_id"] != "r1" || mon.tags["module"] != "mqtt" {
		t.Fatalf("tags not set: %v", mon.tags)
	}
}

func TestPublishResupplyErrorCaptured(t *testing.T) {
	cli := failingClient(t, 4)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	if err := cli.PublishResupply(context.Background(), model.ResupplyRoute{AssetID: "t9"}); err == nil {
		t.Fatalf("expected error")
	}
	if mon.tags["asset_id"] != "t9" {
		t.Fatalf("tags not set: %v", mon.tags)
	}
}
