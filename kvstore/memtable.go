package kvstore

import (
	"bytes"
	"sort"
)

// MemTable is a sorted in-memory Table, used by tests that want to drive
// the chunk updater without paying for a Pebble database on disk.
type MemTable struct {
	keys   [][]byte
	values [][]byte
}

// NewMemTable returns an empty in-memory table.
func NewMemTable() *MemTable {
	return &MemTable{}
}

func (m *MemTable) search(key []byte) int {
	return sort.Search(len(m.keys), func(i int) bool {
		return bytes.Compare(m.keys[i], key) >= 0
	})
}

func (m *MemTable) GetExact(key []byte) (value []byte, found bool, err error) {
	i := m.search(key)
	if i < len(m.keys) && bytes.Equal(m.keys[i], key) {
		return m.values[i], true, nil
	}
	return nil, false, nil
}

func (m *MemTable) set(key, value []byte) {
	i := m.search(key)
	if i < len(m.keys) && bytes.Equal(m.keys[i], key) {
		m.values[i] = value
		return
	}
	m.keys = append(m.keys, nil)
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = key

	m.values = append(m.values, nil)
	copy(m.values[i+1:], m.values[i:])
	m.values[i] = value
}

func (m *MemTable) del(key []byte) {
	i := m.search(key)
	if i < len(m.keys) && bytes.Equal(m.keys[i], key) {
		m.keys = append(m.keys[:i], m.keys[i+1:]...)
		m.values = append(m.values[:i], m.values[i+1:]...)
	}
}

func (m *MemTable) NewCursor() (Cursor, error) {
	return &memCursor{table: m, pos: -1}, nil
}

func (m *MemTable) NewBatch() Batch {
	return &memBatch{table: m}
}

func (m *MemTable) Close() error { return nil }

type memCursor struct {
	table *MemTable
	pos   int
}

func (c *memCursor) FindEntry(key []byte) (exact bool, err error) {
	i := c.table.search(key)
	if i < len(c.table.keys) && bytes.Equal(c.table.keys[i], key) {
		c.pos = i
		return true, nil
	}
	c.pos = i - 1
	return false, nil
}

func (c *memCursor) Valid() bool {
	return c.pos >= 0 && c.pos < len(c.table.keys)
}

func (c *memCursor) Key() []byte { return c.table.keys[c.pos] }

func (c *memCursor) Tag() []byte { return c.table.values[c.pos] }

func (c *memCursor) Next() bool {
	c.pos++
	return c.Valid()
}

func (c *memCursor) Close() error { return nil }

type memBatchOp struct {
	key    []byte
	value  []byte
	delete bool
}

type memBatch struct {
	table *MemTable
	ops   []memBatchOp
}

func (b *memBatch) Add(key, value []byte) {
	b.ops = append(b.ops, memBatchOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
}

func (b *memBatch) Del(key []byte) {
	b.ops = append(b.ops, memBatchOp{key: append([]byte(nil), key...), delete: true})
}

func (b *memBatch) Commit() error {
	for _, op := range b.ops {
		if op.delete {
			b.table.del(op.key)
		} else {
			b.table.set(op.key, op.value)
		}
	}
	b.ops = nil
	return nil
}

func (b *memBatch) Len() int { return len(b.ops) }
