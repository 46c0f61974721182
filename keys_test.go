package valuestore

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkKeyRoundTrip(t *testing.T) {
	cases := []struct {
		slot     Slot
		docFirst DocID
	}{
		{0, 1}, {0, 500}, {3, 1}, {5, 1 << 30}, {1 << 20, 7},
	}
	for _, c := range cases {
		key := ChunkKey(c.slot, c.docFirst)
		slot, docFirst, ok, err := DecodeChunkKey(key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, c.slot, slot)
		assert.Equal(t, c.docFirst, docFirst)
	}
}

func TestChunkKeySortsBySlotThenDocFirst(t *testing.T) {
	type pair struct {
		slot     Slot
		docFirst DocID
	}
	pairs := []pair{
		{0, 1}, {0, 500}, {0, 1000}, {1, 1}, {1, 2}, {5, 1}, {1 << 10, 1},
	}
	keys := make([][]byte, len(pairs))
	for i, p := range pairs {
		keys[i] = ChunkKey(p.slot, p.docFirst)
	}
	sorted := make([][]byte, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return string(sorted[i]) < string(sorted[j]) })
	for i := range sorted {
		assert.Equal(t, string(keys[i]), string(sorted[i]), "expected ChunkKey order to already be sorted order")
	}
}

func TestDecodeChunkKeyRejectsOtherNamespaces(t *testing.T) {
	ok := func(key []byte) bool {
		_, _, ok, err := DecodeChunkKey(key)
		require.NoError(t, err)
		return ok
	}
	assert.False(t, ok(StatsKey(3)))
	assert.False(t, ok(TermlistKey(3)))
	assert.False(t, ok([]byte{}))
	assert.False(t, ok([]byte{0x01}))
}

func TestDecodeChunkKeyTrailingBytesIsCorrupt(t *testing.T) {
	key := ChunkKey(1, 1)
	key = append(key, 0xff)
	_, _, _, err := DecodeChunkKey(key)
	require.Error(t, err)
}

func TestStatsKeyDistinctFromChunkKey(t *testing.T) {
	assert.NotEqual(t, string(ChunkKey(3, 1)), string(StatsKey(3)))
}

func TestTermlistKeyOrdersByDocID(t *testing.T) {
	ids := []DocID{1, 2, 500, 1 << 40}
	keys := make([][]byte, len(ids))
	for i, id := range ids {
		keys[i] = TermlistKey(id)
	}
	sorted := make([][]byte, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return string(sorted[i]) < string(sorted[j]) })
	for i := range sorted {
		assert.Equal(t, string(keys[i]), string(sorted[i]))
	}
}
