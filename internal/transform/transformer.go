// Package transform contains the column-wise pipeline stages that turn raw
// parsed rows into the filtered, feature-bearing analysis table. Stages are
// non-aliasing: each consumes the prior stage's table and produces a new one,
// so no stage ever observes another's mutations.
package transform

import "motstats/internal/domain"

// Transformer is a single table-to-table pipeline stage.
type Transformer interface {
	Apply(*domain.Table) *domain.Table
}

// Chain is an ordered list of transformers applied left to right.
type Chain []Transformer

// Apply runs every stage in order.
func (c Chain) Apply(in *domain.Table) *domain.Table {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
