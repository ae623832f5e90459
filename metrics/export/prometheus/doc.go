// Package prometheus renders authcore metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts an [authcore.Client] and exposes an
// [net/http.Handler] that renders all authcore counters and histograms.
// Counter names are prefixed authcore_*_total; the single histogram is
// authcore_sign_in_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate client state.
package prometheus
