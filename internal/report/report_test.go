package report

import (
	"strings"
	"testing"

	"motstats/internal/dedup"
	"motstats/internal/quality"
	"motstats/internal/summary"
)

func sampleSummary() Summary {
	return Summary{
		SampleRows:    10000,
		ParserSkipped: 2,
		BindSkipped:   1,
		FilteredRows:  8123,
		PassRateAll:   0.7123,
		Removed:       210,
		Canonical: summary.Summary{
			Rows:     7913,
			PassRate: 0.6891,
			MakeModel: []summary.Count{
				{Value: "FORD FIESTA", N: 312},
				{Value: "VAUXHALL CORSA", N: 280},
			},
			Make:     []summary.Count{{Value: "FORD", N: 900}},
			FuelType: []summary.Count{{Value: "PE", N: 5000}, {Value: "DI", N: 2913}},
			Colour:   []summary.Count{{Value: "SILVER", N: 1700}},
			Age: summary.AgeStats{
				Count: 7800, Missing: 113,
				MeanYears: 9.31, StdDevYears: 4.2, MedianYears: 8.9,
				MinYears: 0.1, MaxYears: 52.3,
			},
			Columns: []summary.ColumnOverview{
				{Column: "fuel_type", Distinct: 2, Missing: 0, Top: "PE", TopCount: 5000},
			},
		},
		Quality:         quality.Report{Rows: 8123, DuplicateVehicleIDs: 210},
		DiscardedGroups: []dedup.Group{{VehicleID: 7, Count: 2}},
		OutcomeCodes:    []string{"P", "F", "PRS"},
	}
}

func TestWriteTextContent(t *testing.T) {
	var b strings.Builder
	if err := WriteText(&b, sampleSummary()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"pass rate (all attempts):  0.7123",
		"pass rate (first attempt): 0.6891",
		"canonical vehicles:        7,913",
		"duplicate vehicle_ids: 210",
		"FORD FIESTA",
		"vehicles with repeats: 1",
		"outcome codes in lookup: [P F PRS]",
		"mean=9.31",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in report:\n%s", want, out)
		}
	}
}

func TestWriteTextTruncatesLongTables(t *testing.T) {
	s := sampleSummary()
	var long []summary.Count
	for i := 0; i < 40; i++ {
		long = append(long, summary.Count{Value: "MAKE", N: 40 - i})
	}
	s.Canonical.Make = long
	var b strings.Builder
	if err := WriteText(&b, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(b.String(), "25 more") {
		t.Fatalf("expected truncation marker, got:\n%s", b.String())
	}
}
