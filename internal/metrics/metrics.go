// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the analysis run.
//
// The package exposes a narrow Backend interface (counters plus duration
// observations) behind a global, pluggable backend that defaults to a no-op
// implementation, so instrumentation is always safe to call even when no real
// backend is configured. Concrete systems live in subpackages; the rest of
// the codebase depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style observation in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)        {}
func (nopBackend) ObserveDuration(name string, seconds float64, labels Labels) {}
func (nopBackend) Flush() error                                                { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage measures one pipeline stage: latency plus success/failure.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "stage": stage, "status": status}
	backend.IncCounter("mot_stage_total", 1, lbls)
	backend.ObserveDuration("mot_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields:
//   - "loaded"
//   - "malformed_skipped"
//   - "bind_skipped"
//   - "filtered"
//   - "duplicates_removed"
//   - "canonical"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("mot_rows_total", float64(delta), Labels{"job": job, "kind": kind})
}
