// Package infra holds the adapters behind the engine's core interfaces:
// the zerolog logger, Prometheus and InfluxDB sinks, the Sentry monitor and
// the MQTT field publisher. Core packages never import infra.
package infra
