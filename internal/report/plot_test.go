package report

import (
	"os"
	"path/filepath"
	"testing"

	"motstats/internal/summary"
)

func TestSavePlotsWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	s := sampleSummary().Canonical
	ages := []float64{3.1, 5.2, 8.8, 12.0, 15.4, 9.9, 4.4}
	if err := SavePlots(dir, s, ages); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, name := range []string{"vehicle_age_hist.png", "make_model_top.png"} {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if fi.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestSavePlotsEmptyDataSkipsCharts(t *testing.T) {
	dir := t.TempDir()
	if err := SavePlots(dir, summary.Summary{}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(entries))
	}
}

func TestSaveHTML(t *testing.T) {
	dir := t.TempDir()
	if err := SaveHTML(dir, sampleSummary().Canonical); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "frequencies.html"))
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 {
		t.Fatal("empty chart page")
	}
}
