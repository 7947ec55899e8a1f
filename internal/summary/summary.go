// Package summary computes the read-only aggregate statistics the analyst
// consumes: the pass rate, ranked frequency tables for the plotting side, a
// vehicle-age distribution, and a describe-style per-column overview. Nothing
// in this package mutates the table.
package summary

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"motstats/internal/category"
	"motstats/internal/domain"
)

// hoursPerYear converts durations to fractional years for age statistics.
const hoursPerYear = 24 * 365.25

// Count is one entry of a ranked frequency table.
type Count struct {
	Value string
	N     int
}

// AgeStats describes the vehicle_age distribution over rows where the age is
// defined. Missing counts rows whose first_use_date was the missing marker.
type AgeStats struct {
	Count       int
	Missing     int
	MeanYears   float64
	StdDevYears float64
	MedianYears float64
	MinYears    float64
	MaxYears    float64
}

// ColumnOverview is the describe-style view of one categorical column.
type ColumnOverview struct {
	Column   string
	Distinct int
	Missing  int
	Top      string
	TopCount int
}

// Summary is the full aggregate output for one table.
type Summary struct {
	Rows     int
	PassRate float64 // mean of the 0/1 pass label; NaN for an empty table

	MakeModel []Count
	Make      []Count
	FuelType  []Count
	Colour    []Count

	Age     AgeStats
	Columns []ColumnOverview
}

// Compute reduces a post-derivation table to its Summary.
func Compute(t *domain.Table) Summary {
	s := Summary{
		Rows:     t.Len(),
		PassRate: PassRate(t),
		Make:     Freq(t, "make"),
		FuelType: Freq(t, "fuel_type"),
		Colour:   Freq(t, "colour"),
		Age:      ageStats(t),
	}
	s.MakeModel = makeModelFreq(t)
	for _, col := range domain.CategoricalColumns {
		s.Columns = append(s.Columns, overview(t, col))
	}
	return s
}

// PassRate is the mean of the derived pass label over all rows. The mean of
// an empty table is NaN, matching the convention that an empty sample has no
// pass probability rather than a zero one.
func PassRate(t *domain.Table) float64 {
	if t.Empty() {
		return math.NaN()
	}
	labels := make([]float64, t.Len())
	for i, r := range t.Rows {
		labels[i] = float64(r.Passed)
	}
	return stat.Mean(labels, nil)
}

// Freq tabulates the named categorical column descending by count. Equal
// counts order alphabetically by value so the ranking is stable across runs.
// Missing values appear under the placeholder rendering.
func Freq(t *domain.Table, col string) []Count {
	dict := t.Cats.Dict(col)
	counts := make(map[category.Code]int, dict.Len()+1)
	for i := range t.Rows {
		counts[t.Rows[i].Category(col)]++
	}
	out := make([]Count, 0, len(counts))
	for code, n := range counts {
		out = append(out, Count{Value: dict.Value(code), N: n})
	}
	sortCounts(out)
	return out
}

// makeModelFreq ranks the derived make_model strings. The column is derived
// text rather than an interned category, so it is counted directly.
func makeModelFreq(t *domain.Table) []Count {
	counts := make(map[string]int)
	for _, r := range t.Rows {
		if r.MakeModel == "" {
			continue // underived table; nothing to rank
		}
		counts[r.MakeModel]++
	}
	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, N: n})
	}
	sortCounts(out)
	return out
}

func sortCounts(cs []Count) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].N != cs[j].N {
			return cs[i].N > cs[j].N
		}
		return cs[i].Value < cs[j].Value
	})
}

func ageStats(t *domain.Table) AgeStats {
	var ages []float64
	missing := 0
	for _, r := range t.Rows {
		if r.VehicleAge == nil {
			missing++
			continue
		}
		ages = append(ages, r.VehicleAge.Hours()/hoursPerYear)
	}
	as := AgeStats{Count: len(ages), Missing: missing}
	if len(ages) == 0 {
		as.MeanYears = math.NaN()
		as.StdDevYears = math.NaN()
		as.MedianYears = math.NaN()
		as.MinYears = math.NaN()
		as.MaxYears = math.NaN()
		return as
	}
	sort.Float64s(ages)
	as.MeanYears = stat.Mean(ages, nil)
	as.StdDevYears = stat.StdDev(ages, nil)
	as.MedianYears = stat.Quantile(0.5, stat.Empirical, ages, nil)
	as.MinYears = ages[0]
	as.MaxYears = ages[len(ages)-1]
	return as
}

// AgeSamples extracts the defined vehicle ages in years, for histogram
// rendering. Order follows the table.
func AgeSamples(t *domain.Table) []float64 {
	var ages []float64
	for _, r := range t.Rows {
		if r.VehicleAge != nil {
			ages = append(ages, r.VehicleAge.Hours()/hoursPerYear)
		}
	}
	return ages
}

func overview(t *domain.Table, col string) ColumnOverview {
	ov := ColumnOverview{Column: col}
	for _, c := range Freq(t, col) {
		// The registry dict spans the whole load, so distinct values are
		// counted from this table's own frequency entries.
		if c.Value == category.Placeholder {
			ov.Missing = c.N
			continue
		}
		ov.Distinct++
		if ov.Top == "" {
			ov.Top = c.Value
			ov.TopCount = c.N
		}
	}
	return ov
}
