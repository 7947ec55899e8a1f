// Package dedup collapses the filtered test table to one canonical record
// per vehicle. Even after restricting to normal tests on a single class, some
// vehicles carry several rows, typically a car that failed and retook the
// test without the re-test classification. The first attempt is the record
// with analytical value for "will this car pass first time", so the earliest
// test_date wins and later attempts are discarded.
//
// Discarded rows are not noise: they describe the retry behaviour of failing
// vehicles and stay retrievable on the Result for inspection (and for a
// future modelling pass) rather than being destroyed.
package dedup

import (
	"sort"
	"time"

	"motstats/internal/domain"
)

// FirstAttempt keeps the earliest test per vehicle_id.
//
// Tie-break: the source never explains vehicles with several rows on the same
// test_date (it happens; the data does not say why), so equal dates resolve
// to the row earliest in input order. That rule is deterministic for a given
// input file and is the only way row order influences the result.
type FirstAttempt struct{}

// Group is the per-vehicle duplicate count of the discarded set.
type Group struct {
	VehicleID int64
	Count     int
}

// Result carries both sides of the split. The count law
// Canonical.Len() + Discarded.Len() == input length always holds.
type Result struct {
	Canonical *domain.Table
	Discarded *domain.Table
	Removed   int
}

// Apply partitions t by vehicle_id and keeps the first attempt of each
// partition. Both output tables preserve the input's relative row order, so
// applying the policy to its own canonical output is a no-op.
func (FirstAttempt) Apply(t *domain.Table) Result {
	type slot struct {
		idx  int
		date time.Time
	}
	winners := make(map[int64]slot, len(t.Rows))
	for i, r := range t.Rows {
		prev, seen := winners[r.VehicleID]
		// Strictly-earlier replaces; an equal date keeps the earlier row.
		if !seen || r.TestDate.Before(prev.date) {
			winners[r.VehicleID] = slot{idx: i, date: r.TestDate}
		}
	}

	keep := make([]bool, len(t.Rows))
	for _, s := range winners {
		keep[s.idx] = true
	}

	canonical := make([]domain.TestRecord, 0, len(winners))
	var discarded []domain.TestRecord
	for i, r := range t.Rows {
		if keep[i] {
			canonical = append(canonical, r)
		} else {
			discarded = append(discarded, r)
		}
	}
	return Result{
		Canonical: t.WithRows(canonical),
		Discarded: t.WithRows(discarded),
		Removed:   len(discarded),
	}
}

// DiscardedGroups reports the discarded subset grouped by vehicle_id with
// per-group counts, sorted by vehicle_id. This is the inspection view to
// check before trusting the drop: a vehicle discarded N times had N+1
// attempts in the sample.
func (r Result) DiscardedGroups() []Group {
	counts := make(map[int64]int)
	for _, rec := range r.Discarded.Rows {
		counts[rec.VehicleID]++
	}
	out := make([]Group, 0, len(counts))
	for id, n := range counts {
		out = append(out, Group{VehicleID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out
}
