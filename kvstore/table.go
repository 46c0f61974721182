// Package kvstore defines the sorted key/tag table abstraction the value
// storage subsystem is built on: a B-tree-like store offering an
// exact-match lookup, a cursor that can seek to a key and then find the
// entries immediately around it, and a batch for staging adds/deletes
// that commit atomically.
//
// Two implementations are provided: PebbleTable, backed by
// github.com/cockroachdb/pebble, and MemTable, an in-memory sorted-slice
// stand-in used by unit tests that want to exercise the chunk updater
// without touching disk.
package kvstore

// Table is the sorted key/tag store the chunk reader/updater and the
// statistics store read and write.
type Table interface {
	// GetExact looks up key and reports whether it was present.
	GetExact(key []byte) (value []byte, found bool, err error)

	// NewCursor opens a cursor over the table. The caller must Close it.
	NewCursor() (Cursor, error)

	// NewBatch opens a batch of pending adds/deletes. Nothing reaches the
	// table until the caller Commits it.
	NewBatch() Batch

	// Close releases the table.
	Close() error
}

// Cursor supports seeking to a key and, when there's no exact match,
// landing on the greatest key strictly less than it (or reporting itself
// invalid if none exists) — the walk used to find the chunk covering a
// given document id.
type Cursor interface {
	// FindEntry seeks to key. It reports true and leaves the cursor on
	// key if found exactly; otherwise it leaves the cursor on the
	// greatest key strictly less than key (Valid() reports whether one
	// exists) and returns false.
	FindEntry(key []byte) (exact bool, err error)

	// Valid reports whether the cursor is positioned on an entry.
	Valid() bool

	// Key returns the current entry's key. Valid must be true.
	Key() []byte

	// Tag returns the current entry's value. Valid must be true.
	Tag() []byte

	// Next advances to the following entry in key order, reporting
	// whether one exists.
	Next() bool

	// Close releases the cursor.
	Close() error
}

// Batch stages adds and deletes for atomic application to a Table.
type Batch interface {
	// Add stages key -> value, overwriting any prior value for key.
	Add(key, value []byte)

	// Del stages the removal of key.
	Del(key []byte)

	// Commit applies all staged operations atomically and releases the
	// batch.
	Commit() error

	// Len reports the number of staged operations.
	Len() int
}
