// Package report renders the analysis results for the analyst: a plain-text
// summary plus optional chart artifacts (PNG via gonum/plot, HTML via
// go-echarts). Rendering consumes the ranked frequency sequences computed by
// the summary package and never touches the underlying table.
package report

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"motstats/internal/dedup"
	"motstats/internal/quality"
	"motstats/internal/summary"
)

// topN bounds the frequency-table rows printed and charted.
const topN = 15

// Summary is everything the text report needs from a run.
type Summary struct {
	SampleRows      int
	ParserSkipped   int
	BindSkipped     int
	FilteredRows    int
	PassRateAll     float64 // all attempts, pre-dedup
	Removed         int     // duplicate rows dropped by dedup
	Canonical       summary.Summary
	Quality         quality.Report
	DiscardedGroups []dedup.Group
	OutcomeCodes    []string
}

// WriteText renders the run summary to w with locale-grouped numbers.
func WriteText(w io.Writer, s Summary) error {
	p := message.NewPrinter(language.BritishEnglish)

	p.Fprintf(w, "MOT test results: first-attempt pass analysis\n")
	p.Fprintf(w, "=============================================\n\n")

	p.Fprintf(w, "sample rows loaded:        %d (parser skipped %d, bind skipped %d)\n",
		s.SampleRows, s.ParserSkipped, s.BindSkipped)
	p.Fprintf(w, "rows after type/class cut: %d\n", s.FilteredRows)
	p.Fprintf(w, "duplicate rows removed:    %d\n", s.Removed)
	p.Fprintf(w, "canonical vehicles:        %d\n\n", s.Canonical.Rows)

	p.Fprintf(w, "pass rate (all attempts):  %.4f\n", s.PassRateAll)
	p.Fprintf(w, "pass rate (first attempt): %.4f\n\n", s.Canonical.PassRate)

	p.Fprintf(w, "data quality (pre-dedup)\n")
	p.Fprintf(w, "  duplicate test_ids:    %d\n", s.Quality.DuplicateTestIDs)
	p.Fprintf(w, "  duplicate vehicle_ids: %d\n", s.Quality.DuplicateVehicleIDs)
	p.Fprintf(w, "  exact duplicate rows:  %d\n", s.Quality.ExactDuplicateRows)
	p.Fprintf(w, "  vehicles with repeats: %d\n\n", len(s.DiscardedGroups))

	if len(s.OutcomeCodes) > 0 {
		p.Fprintf(w, "outcome codes in lookup: %v\n\n", s.OutcomeCodes)
	}

	writeFreq(p, w, "make_model", s.Canonical.MakeModel)
	writeFreq(p, w, "make", s.Canonical.Make)
	writeFreq(p, w, "fuel_type", s.Canonical.FuelType)
	writeFreq(p, w, "colour", s.Canonical.Colour)

	a := s.Canonical.Age
	p.Fprintf(w, "vehicle age (years): n=%d missing=%d mean=%.2f sd=%.2f median=%.2f min=%.2f max=%.2f\n\n",
		a.Count, a.Missing, a.MeanYears, a.StdDevYears, a.MedianYears, a.MinYears, a.MaxYears)

	p.Fprintf(w, "column overview\n")
	for _, c := range s.Canonical.Columns {
		p.Fprintf(w, "  %-14s distinct=%-6d missing=%-8d top=%s (%d)\n",
			c.Column, c.Distinct, c.Missing, c.Top, c.TopCount)
	}
	return nil
}

func writeFreq(p *message.Printer, w io.Writer, name string, counts []summary.Count) {
	if len(counts) == 0 {
		return
	}
	p.Fprintf(w, "top %s\n", name)
	for i, c := range counts {
		if i >= topN {
			p.Fprintf(w, "  … %d more\n", len(counts)-topN)
			break
		}
		p.Fprintf(w, "  %-28s %d\n", c.Value, c.N)
	}
	fmt.Fprintln(w)
}
