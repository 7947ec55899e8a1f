// Package quality computes pre-dedup data-quality diagnostics over the
// filtered table: duplicate identifier counts and an inspectable view of the
// vehicles involved. test_id uniqueness is reported, not asserted: the
// upstream data only ever promised a count, so a duplicate test_id is a
// finding, not a crash.
package quality

import (
	"encoding/binary"
	"sort"

	"github.com/zeebo/xxh3"

	"motstats/internal/domain"
)

// Report summarises identifier-level duplication in a table.
type Report struct {
	Rows int

	// DuplicateTestIDs is rows minus distinct test_id values. Expected 0;
	// anything else means the extract itself is suspect.
	DuplicateTestIDs int

	// DuplicateVehicleIDs is rows minus distinct vehicle_id values, the
	// anomaly the dedup stage exists to resolve.
	DuplicateVehicleIDs int

	// ExactDuplicateRows counts rows whose content fingerprint has been seen
	// before: same identifiers, same test_date, and same value in every
	// categorical column. Undocumented extra columns are not fingerprinted.
	ExactDuplicateRows int
}

// Assess scans t once and returns the duplication report. Row content is
// fingerprinted with a 64-bit xxh3 so the bounded sample costs one uint64 per
// row instead of a retained copy of the fields.
func Assess(t *domain.Table) Report {
	rep := Report{Rows: t.Len()}
	testIDs := make(map[int64]struct{}, t.Len())
	vehicleIDs := make(map[int64]struct{}, t.Len())
	fingerprints := make(map[uint64]struct{}, t.Len())

	var buf [8 * 5]byte
	for _, r := range t.Rows {
		testIDs[r.TestID] = struct{}{}
		vehicleIDs[r.VehicleID] = struct{}{}

		lo, hi := packCodes(r)
		binary.LittleEndian.PutUint64(buf[0:], uint64(r.VehicleID))
		binary.LittleEndian.PutUint64(buf[8:], uint64(r.TestDate.Unix()))
		binary.LittleEndian.PutUint64(buf[16:], lo)
		binary.LittleEndian.PutUint64(buf[24:], hi)
		binary.LittleEndian.PutUint64(buf[32:], uint64(r.TestID))
		fp := xxh3.Hash(buf[:])
		if _, seen := fingerprints[fp]; seen {
			rep.ExactDuplicateRows++
		} else {
			fingerprints[fp] = struct{}{}
		}
	}
	rep.DuplicateTestIDs = rep.Rows - len(testIDs)
	rep.DuplicateVehicleIDs = rep.Rows - len(vehicleIDs)
	return rep
}

// packCodes folds all eight categorical codes into two words for
// fingerprinting. Codes are dense small ints, so 16 bits each loses nothing
// in practice.
func packCodes(r domain.TestRecord) (lo, hi uint64) {
	lo = uint64(uint16(r.TestType)) |
		uint64(uint16(r.TestResult))<<16 |
		uint64(uint16(r.TestClassID))<<32 |
		uint64(uint16(r.PostcodeArea))<<48
	hi = uint64(uint16(r.Make)) |
		uint64(uint16(r.Model))<<16 |
		uint64(uint16(r.Colour))<<32 |
		uint64(uint16(r.FuelType))<<48
	return lo, hi
}

// DuplicatedRows returns every row belonging to a vehicle with more than one
// record, sorted by vehicle_id (ties keep input order). This mirrors pulling
// the duplicated subset up for visual inspection before deciding a policy.
func DuplicatedRows(t *domain.Table) *domain.Table {
	counts := make(map[int64]int, t.Len())
	for _, r := range t.Rows {
		counts[r.VehicleID]++
	}
	var rows []domain.TestRecord
	for _, r := range t.Rows {
		if counts[r.VehicleID] > 1 {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].VehicleID < rows[j].VehicleID
	})
	return t.WithRows(rows)
}
