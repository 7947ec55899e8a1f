// Package category implements interned categorical value domains for the
// analysis table. Each categorical column gets a Dict that maps the column's
// raw string values to dense integer codes in first-seen order, so grouping
// and equality checks are integer comparisons and the distinct values of a
// column can be enumerated stably.
package category

import "sort"

// Code is the interned identifier of one value within a column's Dict.
// Codes are dense, start at 0, and are assigned in first-seen order.
type Code int32

// Missing is the sentinel code for an absent value. It is never stored in a
// Dict; Value(Missing) renders the stable placeholder string.
const Missing Code = -1

// Placeholder is the rendering of Missing. Feature derivation relies on this
// being stable across runs (e.g. "FORD <missing>" for a missing model).
const Placeholder = "<missing>"

// Dict is the enumerated value domain of a single column.
type Dict struct {
	name  string
	codes map[string]Code
	vals  []string
}

// NewDict returns an empty Dict for the named column.
func NewDict(name string) *Dict {
	return &Dict{name: name, codes: make(map[string]Code)}
}

// Name returns the column name the Dict belongs to.
func (d *Dict) Name() string { return d.name }

// Intern returns the code for s, assigning the next free code on first sight.
// The empty string is the missing marker and always interns to Missing.
func (d *Dict) Intern(s string) Code {
	if s == "" {
		return Missing
	}
	if c, ok := d.codes[s]; ok {
		return c
	}
	c := Code(len(d.vals))
	d.codes[s] = c
	d.vals = append(d.vals, s)
	return c
}

// Lookup returns the code for s without interning. The second result is false
// when s is not part of the domain.
func (d *Dict) Lookup(s string) (Code, bool) {
	c, ok := d.codes[s]
	return c, ok
}

// Value renders a code back to its string form. Missing renders as the
// Placeholder; out-of-range codes also render as Placeholder rather than
// panicking, since a stale code is indistinguishable from absent data.
func (d *Dict) Value(c Code) string {
	if c < 0 || int(c) >= len(d.vals) {
		return Placeholder
	}
	return d.vals[c]
}

// Len reports the number of distinct interned values (Missing not counted).
func (d *Dict) Len() int { return len(d.vals) }

// Values returns the distinct values in first-seen order.
func (d *Dict) Values() []string {
	out := make([]string, len(d.vals))
	copy(out, d.vals)
	return out
}

// Registry holds the Dicts of all categorical columns in a table, keyed by
// column name. Dicts are created on demand so callers never nil-check.
type Registry struct {
	dicts map[string]*Dict
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{dicts: make(map[string]*Dict)}
}

// Dict returns the Dict for column, creating it if absent.
func (r *Registry) Dict(column string) *Dict {
	if d, ok := r.dicts[column]; ok {
		return d
	}
	d := NewDict(column)
	r.dicts[column] = d
	return d
}

// Columns returns the registered column names, sorted for stable iteration.
func (r *Registry) Columns() []string {
	out := make([]string, 0, len(r.dicts))
	for name := range r.dicts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
