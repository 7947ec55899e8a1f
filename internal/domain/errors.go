package domain

import "errors"

// Sentinel errors for the fatal failure classes of the batch run. Both abort
// the whole run; there is no partial-result mode.
var (
	// ErrSourceUnavailable marks an input path that is missing or unreadable.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSchemaMismatch marks an expected column absent from a loaded table.
	// It is raised by the first stage that needs the column.
	ErrSchemaMismatch = errors.New("schema mismatch")
)
