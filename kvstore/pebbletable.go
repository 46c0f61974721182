package kvstore

import (
	"bytes"
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleWriteOptions configures unsynced writes, leaving fsync to
// Pebble's WAL rotation policy rather than forcing it on every batch
// commit.
var PebbleWriteOptions = &pebble.WriteOptions{Sync: false}

// PebbleTable is a Table backed by a Pebble database.
type PebbleTable struct {
	db *pebble.DB
}

// OpenPebbleTable opens (or creates) a Pebble database at dir.
func OpenPebbleTable(dir string) (*PebbleTable, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleTable{db: db}, nil
}

// NewPebbleTable wraps an already-open Pebble handle, e.g. one shared with
// other subsystems of a larger database.
func NewPebbleTable(db *pebble.DB) *PebbleTable {
	return &PebbleTable{db: db}
}

func (t *PebbleTable) GetExact(key []byte) (value []byte, found bool, err error) {
	v, closer, err := t.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	value = append([]byte(nil), v...)
	_ = closer.Close()
	return value, true, nil
}

func (t *PebbleTable) NewCursor() (Cursor, error) {
	it, err := t.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	return &pebbleCursor{it: it}, nil
}

func (t *PebbleTable) NewBatch() Batch {
	return &pebbleBatch{db: t.db, batch: t.db.NewBatch()}
}

func (t *PebbleTable) Close() error {
	return t.db.Close()
}

// DB exposes the underlying handle, e.g. for PebbleCollector metrics.
func (t *PebbleTable) DB() *pebble.DB {
	return t.db
}

type pebbleCursor struct {
	it    *pebble.Iterator
	valid bool
}

func (c *pebbleCursor) FindEntry(key []byte) (exact bool, err error) {
	c.valid = c.it.SeekGE(key)
	if c.valid && bytes.Equal(c.it.Key(), key) {
		return true, nil
	}
	if c.valid {
		c.valid = c.it.Prev()
	} else {
		c.valid = c.it.Last()
	}
	return false, nil
}

func (c *pebbleCursor) Valid() bool { return c.valid }

// Key and Tag copy out of the iterator's internal buffer: Pebble only
// guarantees those bytes are valid until the next positioning call or
// Close, but callers (ChunkReader in particular) keep reading the tag
// after the cursor that produced it has moved on or been closed.

func (c *pebbleCursor) Key() []byte { return append([]byte(nil), c.it.Key()...) }

func (c *pebbleCursor) Tag() []byte { return append([]byte(nil), c.it.Value()...) }

func (c *pebbleCursor) Next() bool {
	c.valid = c.it.Next()
	return c.valid
}

func (c *pebbleCursor) Close() error {
	return c.it.Close()
}

type pebbleBatch struct {
	db    *pebble.DB
	batch *pebble.Batch
}

func (b *pebbleBatch) Add(key, value []byte) {
	_ = b.batch.Set(key, value, PebbleWriteOptions)
}

func (b *pebbleBatch) Del(key []byte) {
	_ = b.batch.Delete(key, PebbleWriteOptions)
}

func (b *pebbleBatch) Commit() error {
	return b.batch.Commit(PebbleWriteOptions)
}

func (b *pebbleBatch) Len() int {
	return int(b.batch.Count())
}
