// Package pipeline wires the stages into the single-pass batch run: load,
// quality diagnostics, normalize, filter, dedup, derive, summarize. Stages
// execute sequentially and hand ownership of the working table forward; any
// fatal error aborts the whole run; offline batch analysis has no
// partial-result mode.
package pipeline

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"motstats/internal/config"
	"motstats/internal/dedup"
	"motstats/internal/domain"
	"motstats/internal/metrics"
	"motstats/internal/parser/psv"
	"motstats/internal/quality"
	"motstats/internal/skiplog"
	"motstats/internal/summary"
	"motstats/internal/transform"
)

// job labels every metric emitted by a run.
const job = "motstats"

// Counts tracks row movement through the stages.
type Counts struct {
	RawRows       int // body rows read from the extract (post row cap)
	ParserSkipped int // malformed rows dropped by the parser
	BindSkipped   int // rows dropped by the binder (bad ids / test_date)
	Filtered      int // rows surviving the type/class cut
	Removed       int // duplicate rows dropped by dedup
	Canonical     int // canonical vehicles in the final table
}

// Outcome is the full result of one run.
type Outcome struct {
	Counts  Counts
	Quality quality.Report

	// PassRateAll is the pass rate over every attempt in the filtered
	// sample; Canonical.PassRate is the first-attempt rate after dedup.
	// The gap between the two is the retry effect the dedup policy exists
	// to remove.
	PassRateAll float64

	Canonical       summary.Summary
	CanonicalTable  *domain.Table
	Discarded       *domain.Table
	DiscardedGroups []dedup.Group

	OutcomeCodes []string
}

// Run executes the whole analysis for cfg.
func Run(cfg *config.Config) (*Outcome, error) {
	out := &Outcome{}
	start := time.Now()

	skips, err := skiplog.New(filepath.Join(cfg.SkippedDir, "skipped_rows.csv"))
	if err != nil {
		return nil, fmt.Errorf("skip log: %w", err)
	}
	defer skips.Close()

	// Load. The lookups are tiny and only enumerate valid codes; they are
	// never joined into the primary table.
	stageStart := time.Now()
	p := psv.NewParser(psv.Options{
		HasHeader: true,
		MaxRows:   cfg.MaxRows,
		TrimSpace: true,
		OnSkip: func(reason string, line int, raw string) {
			skips.Add(reason, line, "", raw)
		},
	})
	rows, parserSkipped, err := p.ParseFile(cfg.ResultsCSV)
	metrics.RecordStage(job, "load", err, time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	out.Counts.RawRows = len(rows)
	out.Counts.ParserSkipped = parserSkipped
	metrics.RecordRows(job, "loaded", int64(len(rows)))
	metrics.RecordRows(job, "malformed_skipped", int64(parserSkipped))
	log.Printf("loaded %d rows from %s (%d skipped)", len(rows), cfg.ResultsCSV, parserSkipped)

	if _, err := psv.LoadLookup(cfg.TestTypeCSV); err != nil {
		return nil, err
	}
	outcomes, err := psv.LoadLookup(cfg.TestOutcomeCSV)
	if err != nil {
		return nil, err
	}
	out.OutcomeCodes = outcomes.Codes()

	// Normalize: typed ids, calendar dates, interned categories.
	stageStart = time.Now()
	binder := transform.Binder{
		OnSkip: func(reason string, line int, vehicleField, raw string) {
			skips.Add(reason, line, vehicleField, raw)
		},
	}
	table, bindSkipped, err := binder.Bind(rows)
	metrics.RecordStage(job, "normalize", err, time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	rows = nil // the raw sample is large; release it before the later stages
	out.Counts.BindSkipped = bindSkipped
	metrics.RecordRows(job, "bind_skipped", int64(bindSkipped))

	// Filter to one test type and class, then derive features for every
	// surviving attempt so pre- and post-dedup pass rates are comparable.
	stageStart = time.Now()
	filtered := transform.Chain{
		transform.Filter{TestType: cfg.TestType, TestClass: cfg.TestClass},
		transform.Derive{},
	}.Apply(table)
	metrics.RecordStage(job, "filter", nil, time.Since(stageStart))
	out.Counts.Filtered = filtered.Len()
	metrics.RecordRows(job, "filtered", int64(filtered.Len()))
	out.PassRateAll = summary.PassRate(filtered)

	// Quality diagnostics before committing to any drop.
	stageStart = time.Now()
	out.Quality = quality.Assess(filtered)
	metrics.RecordStage(job, "quality", nil, time.Since(stageStart))
	if out.Quality.DuplicateTestIDs > 0 {
		log.Printf("warning: %d duplicate test_ids in filtered sample", out.Quality.DuplicateTestIDs)
	}

	// Dedup to one canonical first-attempt row per vehicle.
	stageStart = time.Now()
	res := dedup.FirstAttempt{}.Apply(filtered)
	metrics.RecordStage(job, "dedup", nil, time.Since(stageStart))
	out.Counts.Removed = res.Removed
	out.Counts.Canonical = res.Canonical.Len()
	out.CanonicalTable = res.Canonical
	out.Discarded = res.Discarded
	out.DiscardedGroups = res.DiscardedGroups()
	metrics.RecordRows(job, "duplicates_removed", int64(res.Removed))
	metrics.RecordRows(job, "canonical", int64(res.Canonical.Len()))
	log.Printf("dedup: %d rows -> %d vehicles (%d removed)",
		filtered.Len(), res.Canonical.Len(), res.Removed)

	// Summarize the canonical table.
	stageStart = time.Now()
	out.Canonical = summary.Compute(res.Canonical)
	metrics.RecordStage(job, "summarize", nil, time.Since(stageStart))

	log.Printf("run completed in %s", time.Since(start).Truncate(time.Millisecond))
	return out, nil
}
