// Package errs provides the sentinel error kinds shared across the value
// storage subsystem.
package errs

import "errors"

var (
	// ErrCorrupt is returned by any decode step that hits truncation,
	// overlength input, a mismatched key namespace, or an out-of-range
	// varint.
	ErrCorrupt = errors.New("valuestore: corrupt data")

	// ErrRange is returned when a decoded integer exceeds the
	// representable domain for its target (e.g. a frequency counter).
	ErrRange = errors.New("valuestore: value out of range")

	// ErrFeatureUnavailable is returned when an operation that requires
	// the termlist table is attempted on a store that never opened one.
	ErrFeatureUnavailable = errors.New("valuestore: database has no termlist")

	// ErrDatabaseClosed is returned by GetAllValues on a manager built
	// with neither a postlist nor a termlist table. A table closed after
	// construction is not detected.
	ErrDatabaseClosed = errors.New("valuestore: no table open")
)
