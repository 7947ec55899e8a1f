package transform

import (
	"testing"

	"motstats/internal/parser/psv"
)

func TestDerivePassed(t *testing.T) {
	tbl, _, err := Binder{}.Bind([]psv.Row{
		baseRow(2, map[string]string{"test_result": "P"}),
		baseRow(3, map[string]string{"test_id": "2", "test_result": "F"}),
		baseRow(4, map[string]string{"test_id": "3", "test_result": "ABR"}),
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	got := Derive{}.Apply(tbl)
	want := []int{1, 0, 0}
	for i, w := range want {
		if got.Rows[i].Passed != w {
			t.Fatalf("row %d: Passed=%d want %d", i, got.Rows[i].Passed, w)
		}
	}
}

func TestDeriveNoPassCodeInSample(t *testing.T) {
	tbl, _, err := Binder{}.Bind([]psv.Row{
		baseRow(2, map[string]string{"test_result": "F"}),
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	got := Derive{}.Apply(tbl)
	if got.Rows[0].Passed != 0 {
		t.Fatal("sample without the pass code must derive all fails")
	}
}

func TestDeriveMakeModel(t *testing.T) {
	tbl, _, err := Binder{}.Bind([]psv.Row{
		baseRow(2, map[string]string{"make": "FORD", "model": "FIESTA"}),
		baseRow(3, map[string]string{"test_id": "2", "make": "FORD", "model": ""}),
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	got := Derive{}.Apply(tbl)
	if mm := got.Rows[0].MakeModel; mm != "FORD FIESTA" {
		t.Fatalf("make_model: got %q", mm)
	}
	if mm := got.Rows[1].MakeModel; mm != "FORD <missing>" {
		t.Fatalf("missing model: got %q", mm)
	}
}

func TestDeriveVehicleAge(t *testing.T) {
	tbl, _, err := Binder{}.Bind([]psv.Row{
		baseRow(2, map[string]string{"test_date": "2021-06-01", "first_use_date": "2015-06-01"}),
		baseRow(3, map[string]string{"test_id": "2", "first_use_date": ""}),
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	got := Derive{}.Apply(tbl)
	if got.Rows[0].VehicleAge == nil {
		t.Fatal("age: got nil")
	}
	wantDays := 6*365 + 2 // 2016 and 2020 are leap years
	if days := int(got.Rows[0].VehicleAge.Hours() / 24); days != wantDays {
		t.Fatalf("age: got %d days want %d", days, wantDays)
	}
	if got.Rows[1].VehicleAge != nil {
		t.Fatal("missing first_use_date must propagate to nil age")
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	tbl, _, err := Binder{}.Bind([]psv.Row{baseRow(2, nil)})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	_ = Derive{}.Apply(tbl)
	if tbl.Rows[0].Passed != 0 || tbl.Rows[0].MakeModel != "" {
		t.Fatal("input rows were mutated")
	}
}
