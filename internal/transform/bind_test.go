package transform

import (
	"errors"
	"testing"
	"time"

	"motstats/internal/category"
	"motstats/internal/domain"
	"motstats/internal/parser/psv"
)

// raw builds a parsed row from string fields, modelling empty source values
// as absent keys the way the parser does.
func raw(line int, fields map[string]string) psv.Row {
	m := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == "" {
			m[k] = nil
		} else {
			m[k] = v
		}
	}
	return psv.Row{Line: line, Fields: m}
}

func baseRow(line int, over map[string]string) psv.Row {
	fields := map[string]string{
		"test_id":        "1",
		"vehicle_id":     "10",
		"test_date":      "2021-06-01",
		"first_use_date": "2015-06-01",
		"test_type":      "NT",
		"test_result":    "P",
		"test_class_id":  "4",
		"postcode_area":  "SW",
		"make":           "FORD",
		"model":          "FIESTA",
		"colour":         "RED",
		"fuel_type":      "PE",
	}
	for k, v := range over {
		fields[k] = v
	}
	return raw(line, fields)
}

func TestBindTypes(t *testing.T) {
	tbl, skipped, err := Binder{}.Bind([]psv.Row{baseRow(2, nil)})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if skipped != 0 || tbl.Len() != 1 {
		t.Fatalf("got %d rows, %d skipped", tbl.Len(), skipped)
	}
	r := tbl.Rows[0]
	if r.TestID != 1 || r.VehicleID != 10 {
		t.Fatalf("ids: got %d/%d", r.TestID, r.VehicleID)
	}
	want, _ := time.Parse(domain.DateLayout, "2021-06-01")
	if !r.TestDate.Equal(want) {
		t.Fatalf("test_date: got %v", r.TestDate)
	}
	if r.FirstUseDate == nil || r.FirstUseDate.Year() != 2015 {
		t.Fatalf("first_use_date: got %v", r.FirstUseDate)
	}
	if got := tbl.Cats.Dict("make").Value(r.Make); got != "FORD" {
		t.Fatalf("make: got %q", got)
	}
}

func TestBindMissingValuesBecomeMarkers(t *testing.T) {
	tbl, _, err := Binder{}.Bind([]psv.Row{baseRow(2, map[string]string{
		"first_use_date": "",
		"model":          "",
	})})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	r := tbl.Rows[0]
	if r.FirstUseDate != nil {
		t.Fatalf("missing first_use_date: got %v want nil", r.FirstUseDate)
	}
	if r.Model != category.Missing {
		t.Fatalf("missing model: got %d want Missing", r.Model)
	}
}

func TestBindUnparsableFirstUseDateIsMissing(t *testing.T) {
	tbl, skipped, err := Binder{}.Bind([]psv.Row{baseRow(2, map[string]string{
		"first_use_date": "not-a-date",
	})})
	if err != nil || skipped != 0 {
		t.Fatalf("bind: err=%v skipped=%d", err, skipped)
	}
	if tbl.Rows[0].FirstUseDate != nil {
		t.Fatal("unparsable first_use_date must coerce to nil")
	}
}

func TestBindSkipsBadRows(t *testing.T) {
	var reasons []string
	b := Binder{OnSkip: func(reason string, line int, vehicleField, raw string) {
		reasons = append(reasons, reason)
	}}
	tbl, skipped, err := b.Bind([]psv.Row{
		baseRow(2, map[string]string{"test_id": "x"}),
		baseRow(3, map[string]string{"vehicle_id": ""}),
		baseRow(4, map[string]string{"test_date": "2021-13-99"}),
		baseRow(5, nil),
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if skipped != 3 || tbl.Len() != 1 {
		t.Fatalf("got %d rows, %d skipped", tbl.Len(), skipped)
	}
	want := []string{"test_id_not_numeric", "vehicle_id_not_numeric", "test_date_unparsable"}
	for i, r := range want {
		if reasons[i] != r {
			t.Fatalf("reason %d: got %q want %q", i, reasons[i], r)
		}
	}
}

func TestBindSchemaMismatch(t *testing.T) {
	_, _, err := Binder{}.Bind([]psv.Row{raw(2, map[string]string{"vehicle_id": "10"})})
	if !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Fatalf("got %v want ErrSchemaMismatch", err)
	}
}

func TestBindMissingCategoricalColumnIsFatal(t *testing.T) {
	// A column that is absent from the header entirely, not merely empty,
	// must abort the bind. An extract without test_result would otherwise
	// derive an all-fail pass rate with no error anywhere.
	for _, col := range []string{"test_result", "test_type", "test_class_id"} {
		row := baseRow(2, nil)
		delete(row.Fields, col)
		_, _, err := Binder{}.Bind([]psv.Row{row})
		if !errors.Is(err, domain.ErrSchemaMismatch) {
			t.Fatalf("missing %s: got %v want ErrSchemaMismatch", col, err)
		}
	}
}

func TestBindExtraColumns(t *testing.T) {
	tbl, _, err := Binder{}.Bind([]psv.Row{baseRow(2, map[string]string{
		"test_mileage": "42000",
	})})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got := tbl.Rows[0].Extra["test_mileage"]; got != "42000" {
		t.Fatalf("extra: got %q want 42000", got)
	}
}

func TestBindEmptyInput(t *testing.T) {
	tbl, skipped, err := Binder{}.Bind(nil)
	if err != nil || skipped != 0 || !tbl.Empty() {
		t.Fatalf("empty bind: tbl=%v skipped=%d err=%v", tbl, skipped, err)
	}
}
