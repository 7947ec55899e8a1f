package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"motstats/internal/category"
	"motstats/internal/domain"
	"motstats/internal/parser/psv"
)

// requiredColumns must be present in the parsed header before binding can
// proceed; a missing column is a fatal schema mismatch. A wrong extract
// that lacks, say, test_result would otherwise bind every row to the
// missing marker and quietly derive an all-fail pass rate.
var requiredColumns = append(
	[]string{"test_id", "vehicle_id", "test_date", "first_use_date"},
	domain.CategoricalColumns...,
)

// Binder turns raw parsed rows into the typed analysis table: integer
// identifiers, calendar dates, and interned categorical codes.
//
// Date handling is a total function over each column: first_use_date values
// that fail to parse become the explicit missing marker (nil), never an error
// and never a dropped row. test_date is the one exception: it is required by
// every later stage, so a row with an unusable test_date is skipped, counted,
// and reported via OnSkip, mirroring the parser's malformed-row policy.
type Binder struct {
	// Layout is the date layout; domain.DateLayout when empty.
	Layout string

	// OnSkip, when set, receives rows rejected at bind time.
	OnSkip func(reason string, line int, vehicleField, raw string)
}

// Bind converts rows into a new table. The returned skip count covers rows
// rejected for unusable identifiers or test_date. Binding is order-preserving
// and never reorders surviving rows.
func (b Binder) Bind(rows []psv.Row) (*domain.Table, int, error) {
	t := domain.NewTable()
	if len(rows) == 0 {
		return t, 0, nil
	}

	for _, col := range requiredColumns {
		if _, ok := rows[0].Fields[col]; !ok {
			return nil, 0, fmt.Errorf("%w: column %q not in input", domain.ErrSchemaMismatch, col)
		}
	}

	layout := b.Layout
	if layout == "" {
		layout = domain.DateLayout
	}

	known := make(map[string]struct{}, len(requiredColumns))
	for _, c := range requiredColumns {
		known[c] = struct{}{}
	}

	dicts := make([]*category.Dict, len(domain.CategoricalColumns))
	for i, c := range domain.CategoricalColumns {
		dicts[i] = t.Cats.Dict(c)
	}

	var skipped int
	t.Rows = make([]domain.TestRecord, 0, len(rows))
	for _, row := range rows {
		testID, err := strconv.ParseInt(row.String("test_id"), 10, 64)
		if err != nil {
			skipped++
			b.skip("test_id_not_numeric", row)
			continue
		}
		vehicleID, err := strconv.ParseInt(row.String("vehicle_id"), 10, 64)
		if err != nil {
			skipped++
			b.skip("vehicle_id_not_numeric", row)
			continue
		}
		testDate, err := time.Parse(layout, row.String("test_date"))
		if err != nil {
			skipped++
			b.skip("test_date_unparsable", row)
			continue
		}

		rec := domain.TestRecord{
			TestID:    testID,
			VehicleID: vehicleID,
			TestDate:  testDate,
		}
		// Unparsable or absent first_use_date coerces to the missing marker.
		if fu, err := time.Parse(layout, row.String("first_use_date")); err == nil {
			rec.FirstUseDate = &fu
		}
		for i, col := range domain.CategoricalColumns {
			*catField(&rec, col) = dicts[i].Intern(row.String(col))
		}
		for k, v := range row.Fields {
			if _, ok := known[k]; ok {
				continue
			}
			s, _ := v.(string)
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[k] = s
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, skipped, nil
}

func (b Binder) skip(reason string, row psv.Row) {
	if b.OnSkip == nil {
		return
	}
	b.OnSkip(reason, row.Line, row.String("vehicle_id"), rawish(row))
}

// rawish reconstructs a diagnostic rendering of a raw row for skip logs. The
// original byte order is gone after parsing, so fields are emitted as sorted
// key=value pairs.
func rawish(row psv.Row) string {
	keys := make([]string, 0, len(row.Fields))
	for k := range row.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+row.String(k))
	}
	return strings.Join(parts, "|")
}

// catField routes a categorical column name to its struct field.
func catField(rec *domain.TestRecord, col string) *category.Code {
	switch col {
	case "test_type":
		return &rec.TestType
	case "test_result":
		return &rec.TestResult
	case "test_class_id":
		return &rec.TestClassID
	case "postcode_area":
		return &rec.PostcodeArea
	case "make":
		return &rec.Make
	case "model":
		return &rec.Model
	case "colour":
		return &rec.Colour
	case "fuel_type":
		return &rec.FuelType
	}
	panic("unknown categorical column " + col)
}
