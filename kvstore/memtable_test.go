package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemTableAddGetDel(t *testing.T) {
	m := NewMemTable()
	b := m.NewBatch()
	b.Add([]byte("a"), []byte("1"))
	b.Add([]byte("c"), []byte("3"))
	b.Add([]byte("b"), []byte("2"))
	require.NoError(t, b.Commit())

	v, found, err := m.GetExact([]byte("b"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2", string(v))

	b2 := m.NewBatch()
	b2.Del([]byte("b"))
	require.NoError(t, b2.Commit())

	_, found, err = m.GetExact([]byte("b"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemCursorFindEntryExactAndLess(t *testing.T) {
	m := NewMemTable()
	b := m.NewBatch()
	b.Add([]byte("a"), []byte("1"))
	b.Add([]byte("c"), []byte("3"))
	b.Add([]byte("e"), []byte("5"))
	require.NoError(t, b.Commit())

	cur, err := m.NewCursor()
	require.NoError(t, err)
	defer cur.Close()

	exact, err := cur.FindEntry([]byte("c"))
	require.NoError(t, err)
	assert.True(t, exact)
	assert.Equal(t, "c", string(cur.Key()))

	exact, err = cur.FindEntry([]byte("d"))
	require.NoError(t, err)
	assert.False(t, exact)
	assert.True(t, cur.Valid())
	assert.Equal(t, "c", string(cur.Key()), "lands on the greatest key strictly less than target")

	exact, err = cur.FindEntry([]byte("0"))
	require.NoError(t, err)
	assert.False(t, exact)
	assert.False(t, cur.Valid(), "no key is less than the smallest key")
}

func TestMemCursorNext(t *testing.T) {
	m := NewMemTable()
	b := m.NewBatch()
	b.Add([]byte("a"), []byte("1"))
	b.Add([]byte("b"), []byte("2"))
	b.Add([]byte("c"), []byte("3"))
	require.NoError(t, b.Commit())

	cur, err := m.NewCursor()
	require.NoError(t, err)
	defer cur.Close()

	exact, err := cur.FindEntry([]byte("a"))
	require.NoError(t, err)
	require.True(t, exact)

	require.True(t, cur.Next())
	assert.Equal(t, "b", string(cur.Key()))
	require.True(t, cur.Next())
	assert.Equal(t, "c", string(cur.Key()))
	assert.False(t, cur.Next())
	assert.False(t, cur.Valid())
}
