package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"motstats/internal/summary"
)

// ageHistBins is the bin count for the vehicle-age histogram; MOT-liable cars
// span roughly 3-40 years, so one bin per year reads well.
const ageHistBins = 40

// SavePlots writes the PNG artifacts into dir: a vehicle-age histogram and a
// bar chart of the most common make_model values. Charts with no data are
// skipped silently; a render failure is returned but should not abort the
// analysis; plotting is a collaborator, not a pipeline stage.
func SavePlots(dir string, s summary.Summary, ages []float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plots dir: %w", err)
	}
	if err := saveAgeHistogram(filepath.Join(dir, "vehicle_age_hist.png"), ages); err != nil {
		return err
	}
	return saveMakeModelBars(filepath.Join(dir, "make_model_top.png"), s.MakeModel)
}

func saveAgeHistogram(path string, ages []float64) error {
	if len(ages) == 0 {
		return nil
	}
	p := plot.New()
	p.Title.Text = "Vehicle age at test"
	p.X.Label.Text = "Age (years)"
	p.Y.Label.Text = "Tests"

	h, err := plotter.NewHist(plotter.Values(ages), ageHistBins)
	if err != nil {
		return fmt.Errorf("age histogram: %w", err)
	}
	p.Add(h)
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func saveMakeModelBars(path string, counts []summary.Count) error {
	if len(counts) == 0 {
		return nil
	}
	n := len(counts)
	if n > topN {
		n = topN
	}
	vals := make(plotter.Values, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		vals[i] = float64(counts[i].N)
		names[i] = counts[i].Value
	}

	p := plot.New()
	p.Title.Text = "Most tested make/model combinations"
	p.Y.Label.Text = "Tests"

	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return fmt.Errorf("make_model bars: %w", err)
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = -0.8
	p.X.Tick.Label.YAlign = -0.3

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
