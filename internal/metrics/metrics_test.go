package metrics

import (
	"errors"
	"testing"
	"time"
)

type capture struct {
	counters  map[string]float64
	durations map[string]float64
	labels    map[string]Labels
}

func newCapture() *capture {
	return &capture{
		counters:  map[string]float64{},
		durations: map[string]float64{},
		labels:    map[string]Labels{},
	}
}

func (c *capture) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *capture) ObserveDuration(name string, seconds float64, labels Labels) {
	c.durations[name] += seconds
}

func (c *capture) Flush() error { return nil }

func withBackend(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestRecordStage(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	RecordStage("motstats", "dedup", nil, 250*time.Millisecond)
	if c.counters["mot_stage_total"] != 1 {
		t.Fatalf("stage counter: got %v", c.counters["mot_stage_total"])
	}
	if got := c.labels["mot_stage_total"]["status"]; got != "success" {
		t.Fatalf("status: got %q", got)
	}
	if c.durations["mot_stage_duration_seconds"] != 0.25 {
		t.Fatalf("duration: got %v", c.durations["mot_stage_duration_seconds"])
	}

	RecordStage("motstats", "load", errors.New("boom"), time.Second)
	if got := c.labels["mot_stage_total"]["status"]; got != "failure" {
		t.Fatalf("failure status: got %q", got)
	}
}

func TestRecordRows(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	RecordRows("motstats", "canonical", 42)
	RecordRows("motstats", "canonical", 0)  // no-op
	RecordRows("motstats", "canonical", -3) // no-op
	if c.counters["mot_rows_total"] != 42 {
		t.Fatalf("rows counter: got %v", c.counters["mot_rows_total"])
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	c := newCapture()
	withBackend(t, c)
	SetBackend(nil)
	RecordRows("motstats", "loaded", 1)
	if c.counters["mot_rows_total"] != 1 {
		t.Fatal("nil SetBackend replaced the backend")
	}
}
