package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"motstats/internal/summary"
)

// SaveHTML renders the ranked frequency tables as an interactive chart page
// under dir. The page is a browsing aid over the same numbers the text
// report prints.
func SaveHTML(dir string, s summary.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plots dir: %w", err)
	}

	page := components.NewPage()
	if bar := freqBar("Top make/model", s.MakeModel); bar != nil {
		page.AddCharts(bar)
	}
	if bar := freqBar("Tests by make", s.Make); bar != nil {
		page.AddCharts(bar)
	}
	if bar := freqBar("Tests by fuel type", s.FuelType); bar != nil {
		page.AddCharts(bar)
	}
	if bar := freqBar("Tests by colour", s.Colour); bar != nil {
		page.AddCharts(bar)
	}

	path := filepath.Join(dir, "frequencies.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

func freqBar(title string, counts []summary.Count) *charts.Bar {
	if len(counts) == 0 {
		return nil
	}
	n := len(counts)
	if n > topN {
		n = topN
	}
	names := make([]string, n)
	data := make([]opts.BarData, n)
	for i := 0; i < n; i++ {
		names[i] = counts[i].Value
		data[i] = opts.BarData{Value: counts[i].N}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "MOT first-attempt analysis"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Show: opts.Bool(true)}}),
	)
	bar.SetXAxis(names).AddSeries("tests", data)
	return bar
}
