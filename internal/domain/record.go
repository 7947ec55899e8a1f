// Package domain defines the typed row model for MOT test-result analysis.
// Records mirror the raw pipe-separated schema; NULLable columns use pointer
// types so a missing value stays distinguishable from a zero value.
package domain

import (
	"time"

	"motstats/internal/category"
)

// DateLayout is the calendar format used by the DfT test-result export for
// test_date and first_use_date.
const DateLayout = "2006-01-02"

// PassCode is the single outcome code counted as a pass. Every other code,
// including codes not present in the outcome lookup, counts as a fail.
const PassCode = "P"

// Categorical column names of the raw schema, in schema order. These are the
// columns the normalizer interns into category dicts.
var CategoricalColumns = []string{
	"test_type",
	"test_result",
	"test_class_id",
	"postcode_area",
	"make",
	"model",
	"colour",
	"fuel_type",
}

// TestRecord is one row of the primary dataset plus its derived features.
// Instances are created once by the normalizer; later stages copy rows into
// new tables rather than aliasing a prior stage's slice.
type TestRecord struct {
	TestID    int64
	VehicleID int64

	// TestDate is required and always parseable; rows with an unusable
	// test_date are skipped (and counted) at bind time.
	TestDate time.Time

	// FirstUseDate is nil when the source value is absent or unparsable.
	// The nil propagates into VehicleAge, never a zero time.
	FirstUseDate *time.Time

	TestType     category.Code
	TestResult   category.Code
	TestClassID  category.Code
	PostcodeArea category.Code
	Make         category.Code
	Model        category.Code
	Colour       category.Code
	FuelType     category.Code

	// Extra carries raw columns outside the documented schema (e.g.
	// test_mileage, cylinder_capacity) through the pipeline untouched.
	Extra map[string]string

	// Derived features, populated by the Derive stage.
	Passed     int            // 1 when TestResult renders PassCode, else 0
	MakeModel  string         // "MAKE MODEL", missing parts as placeholder
	VehicleAge *time.Duration // TestDate - FirstUseDate; nil when unknown
}

// Category returns the interned code of the named categorical column.
// Unknown column names panic; callers iterate CategoricalColumns.
func (r *TestRecord) Category(col string) category.Code {
	switch col {
	case "test_type":
		return r.TestType
	case "test_result":
		return r.TestResult
	case "test_class_id":
		return r.TestClassID
	case "postcode_area":
		return r.PostcodeArea
	case "make":
		return r.Make
	case "model":
		return r.Model
	case "colour":
		return r.Colour
	case "fuel_type":
		return r.FuelType
	}
	panic("unknown categorical column " + col)
}

// Table is the working set handed between pipeline stages: the rows plus the
// category registry their coded columns refer to. Stages produce new Tables
// sharing the registry; they never mutate a prior stage's rows.
type Table struct {
	Rows []TestRecord
	Cats *category.Registry
}

// NewTable returns an empty table with a fresh category registry.
func NewTable() *Table {
	return &Table{Cats: category.NewRegistry()}
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows. An empty table is a valid
// pipeline value, not an error.
func (t *Table) Empty() bool { return len(t.Rows) == 0 }

// WithRows returns a new table over rows sharing t's category registry.
func (t *Table) WithRows(rows []TestRecord) *Table {
	return &Table{Rows: rows, Cats: t.Cats}
}
