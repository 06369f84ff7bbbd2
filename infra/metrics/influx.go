package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/cryptonique0/cecd/infra/logger"
)

// InfluxSink writes engine outputs to an InfluxDB bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance and returns a NopSink when
// the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) write(points ...*write.Point) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordSuggestions writes one dispatch_suggestion point per suggestion.
func (s *InfluxSink) RecordSuggestions(at time.Time, sug []model.DispatchSuggestion) error {
	points := make([]*write.Point, 0, len(sug))
	for _, d := range sug {
		points = append(points, write.NewPointWithMeasurement("dispatch_suggestion").
			AddTag("incident_id", d.IncidentID).
			AddTag("responder_id", d.ResponderID).
			AddTag("priority", string(d.Priority)).
			AddField("distance_km", round3(d.DistanceKm)).
			AddField("eta_minutes", d.ETAMinutes).
			SetTime(at))
	}
	return s.write(points...)
}

// RecordReadiness writes one region_readiness point per region.
func (s *InfluxSink) RecordReadiness(at time.Time, recs []model.ReadinessRecord) error {
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		points = append(points, write.NewPointWithMeasurement("region_readiness").
			AddTag("region", r.Region).
			AddField("score", round3(r.Score)).
			AddField("avg_response_minutes", round3(r.AvgResponseMinutes)).
			AddField("closure_rate", round3(r.ClosureRate)).
			AddField("skill_gaps", len(r.SkillGaps)).
			SetTime(at))
	}
	return s.write(points...)
}

// RecordAnomalies writes one incident_anomaly point per flagged report.
func (s *InfluxSink) RecordAnomalies(at time.Time, recs []model.AnomalyRecord) error {
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		points = append(points, write.NewPointWithMeasurement("incident_anomaly").
			AddTag("incident_id", r.IncidentID).
			AddTag("region", r.Region).
			AddField("suspicion_score", round3(r.SuspicionScore)).
			AddField("reason", r.Reason).
			SetTime(at))
	}
	return s.write(points...)
}

// RecordShortages writes one region_shortage point per forecast.
func (s *InfluxSink) RecordShortages(at time.Time, recs []model.ShortageForecast) error {
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		points = append(points, write.NewPointWithMeasurement("region_shortage").
			AddTag("region", r.Region).
			AddField("count", len(r.Shortages)).
			AddField("shortages", strings.Join(r.Shortages, ",")).
			SetTime(at))
	}
	return s.write(points...)
}

// RecordTrustProfile writes the responder trust score.
func (s *InfluxSink) RecordTrustProfile(p model.TrustProfile) error {
	return s.write(write.NewPointWithMeasurement("responder_trust").
		AddTag("responder_id", p.ResponderID).
		AddField("score", p.Score).
		AddField("components", len(p.Components)).
		SetTime(p.LastComputedAt))
}

// RecordAssignment writes one asset_assignment point.
func (s *InfluxSink) RecordAssignment(at time.Time, assetID, incidentID string, released bool) error {
	return s.write(write.NewPointWithMeasurement("asset_assignment").
		AddTag("asset_id", assetID).
		AddField("incident_id", incidentID).
		AddField("released", released).
		SetTime(at))
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
