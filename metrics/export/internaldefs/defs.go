// Package internaldefs holds the shared metric name/help definitions used by
// the Prometheus and OTel exporters. It exists so both exporters emit the
// same metric names without either importing the other.
package internaldefs

import (
	authcore "github.com/mobilisk/authcore"
)

// CounterDef defines a public type used by authcore APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authcore APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication client.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricSignInSuccess, Name: "authcore_sign_in_success_total", Help: "Successful sign-in calls."},
	{ID: authcore.MetricSignInFailure, Name: "authcore_sign_in_failure_total", Help: "Failed sign-in calls."},
	{ID: authcore.MetricSignUpSuccess, Name: "authcore_sign_up_success_total", Help: "Successful sign-up calls."},
	{ID: authcore.MetricSignUpFailure, Name: "authcore_sign_up_failure_total", Help: "Failed sign-up calls."},
	{ID: authcore.MetricSignOutSuccess, Name: "authcore_sign_out_success_total", Help: "Clean sign-out completions."},
	{ID: authcore.MetricSignOutForcedReset, Name: "authcore_sign_out_forced_reset_total", Help: "Sign-outs where local state was force-cleared after a provider failure."},
	{ID: authcore.MetricSessionRestored, Name: "authcore_session_restored_total", Help: "Sessions restored by the initial fetch."},
	{ID: authcore.MetricAuthStateChange, Name: "authcore_auth_state_change_total", Help: "Applied provider session-change notifications."},
	{ID: authcore.MetricInitialFetchFailure, Name: "authcore_initial_fetch_failure_total", Help: "Initial session fetches that failed and were swallowed."},
	{ID: authcore.MetricWatcherDropped, Name: "authcore_watcher_dropped_total", Help: "State notifications dropped on slow watcher channels."},
}

// HistogramDefs is an exported constant or variable used by the authentication client.
var HistogramDefs = []HistogramDef{
	{ID: authcore.MetricSignInLatency, Name: "authcore_sign_in_latency_seconds", Help: "Sign-in latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authentication client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// 8-bucket layout.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
