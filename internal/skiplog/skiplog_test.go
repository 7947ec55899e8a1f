package skiplog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLogWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "skipped_rows.csv")
	l, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Add("arity_mismatch_want_4_got_5", 12, "", "a|b|c|d|e")
	l.Add("test_date_unparsable", 30, "1005", "test_date=2021-13-99")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := [][]string{
		{"reason", "line_number", "vehicle_field", "raw_row"},
		{"arity_mismatch_want_4_got_5", "12", "", "a|b|c|d|e"},
		{"test_date_unparsable", "30", "1005", "test_date=2021-13-99"},
	}
	if !reflect.DeepEqual(recs, want) {
		t.Fatalf("got %v want %v", recs, want)
	}
}

func TestReasonsTally(t *testing.T) {
	l, err := New(filepath.Join(t.TempDir(), "s.csv"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer l.Close()
	l.Add("x", 1, "", "")
	l.Add("x", 2, "", "")
	l.Add("y", 3, "", "")
	want := map[string]int{"x": 2, "y": 1}
	if got := l.Reasons(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
