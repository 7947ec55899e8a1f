// Package skiplog records rows rejected by the parser or binder into a CSV
// file so a run's drops stay auditable. Reasons are also tallied in memory
// for the end-of-run report.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Log is a CSV sink for skipped rows plus per-reason counts. Not safe for
// concurrent use; the pipeline is single-threaded.
type Log struct {
	reasons map[string]int
	w       *csv.Writer
	f       *os.File
}

// New creates the skip log at path, creating parent directories as needed.
func New(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"reason", "line_number", "vehicle_field", "raw_row"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Log{reasons: make(map[string]int), w: w, f: f}, nil
}

// Add appends one skipped row.
func (l *Log) Add(reason string, line int, vehicleField, raw string) {
	l.reasons[reason]++
	_ = l.w.Write([]string{reason, strconv.Itoa(line), vehicleField, raw})
}

// Reasons returns the per-reason skip counts accumulated so far.
func (l *Log) Reasons() map[string]int {
	out := make(map[string]int, len(l.reasons))
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
