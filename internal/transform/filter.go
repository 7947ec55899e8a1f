package transform

import (
	"motstats/internal/category"
	"motstats/internal/domain"
)

// Filter restricts the table to one test-type code and one test-class code.
// The filter removes leakage two ways: re-test records carry their own
// test-type codes, and non-car classes behave differently enough to poison a
// pass-rate analysis. The two predicates are a plain conjunction; an empty
// result is valid, not an error.
type Filter struct {
	TestType  string // e.g. "NT", normal test
	TestClass string // e.g. "4", cars
}

// Apply returns a new table holding only the matching rows, in input order.
func (f Filter) Apply(t *domain.Table) *domain.Table {
	// A code that was never interned cannot match any row.
	tt, okType := t.Cats.Dict("test_type").Lookup(f.TestType)
	tc, okClass := t.Cats.Dict("test_class_id").Lookup(f.TestClass)
	if !okType || !okClass {
		return t.WithRows(nil)
	}
	return t.WithRows(filterRows(t.Rows, tt, tc))
}

func filterRows(rows []domain.TestRecord, tt, tc category.Code) []domain.TestRecord {
	var out []domain.TestRecord
	for _, r := range rows {
		if r.TestType == tt && r.TestClassID == tc {
			out = append(out, r)
		}
	}
	return out
}
