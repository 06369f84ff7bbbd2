// Package metrics defines the sinks that record engine outputs for
// observability. The base MetricsSink records dispatch suggestions; optional
// recorder interfaces cover readiness, anomalies, shortages and trust
// profiles and are discovered by type assertion. Sinks are built from
// configuration through the factory registry and combined with MultiSink
// when several are configured.
package metrics
