package transform

import (
	"time"

	"motstats/internal/domain"
)

// Derive computes the per-row features used by the summariser. It is a pure
// per-row transformation: no I/O, no filtering, no reordering.
//
//   - Passed is 1 exactly when test_result is the single pass code "P"; any
//     other code, including codes the outcome lookup does not know, maps to 0.
//   - MakeModel is "MAKE MODEL" with a stable placeholder for a missing part.
//   - VehicleAge is test_date - first_use_date; a missing first_use_date
//     propagates to a missing age, never a zero duration.
type Derive struct{}

// Apply returns a new table whose rows carry the derived features.
func (Derive) Apply(t *domain.Table) *domain.Table {
	resultDict := t.Cats.Dict("test_result")
	makeDict := t.Cats.Dict("make")
	modelDict := t.Cats.Dict("model")

	// The pass code may be absent from a small sample; then nothing passes.
	passCode, havePass := resultDict.Lookup(domain.PassCode)

	rows := make([]domain.TestRecord, len(t.Rows))
	for i, r := range t.Rows {
		if havePass && r.TestResult == passCode {
			r.Passed = 1
		} else {
			r.Passed = 0
		}
		r.MakeModel = makeDict.Value(r.Make) + " " + modelDict.Value(r.Model)
		r.VehicleAge = vehicleAge(r)
		rows[i] = r
	}
	return t.WithRows(rows)
}

func vehicleAge(r domain.TestRecord) *time.Duration {
	if r.FirstUseDate == nil {
		return nil
	}
	d := r.TestDate.Sub(*r.FirstUseDate)
	return &d
}
