package valuestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSlotsUsedBitmapExample(t *testing.T) {
	blob := EncodeSlotsUsed([]Slot{0, 3, 6})
	require.Len(t, blob, 1)
	assert.Equal(t, byte(0b01001001), blob[0])

	got, err := DecodeSlotsUsed(blob)
	require.NoError(t, err)
	assert.Equal(t, []Slot{0, 3, 6}, got)
}

func TestEncodeSlotsUsedInterpolativeExample(t *testing.T) {
	blob := EncodeSlotsUsed([]Slot{5, 9, 100})
	require.NotEmpty(t, blob)
	assert.GreaterOrEqual(t, blob[0], byte(0x80), "a slot above the bitmap bound must take the length-prefixed form")

	got, err := DecodeSlotsUsed(blob)
	require.NoError(t, err)
	assert.Equal(t, []Slot{5, 9, 100}, got)
}

func TestSlotsUsedRoundTripVariousSizes(t *testing.T) {
	cases := [][]Slot{
		{0},
		{6},
		{0, 1, 2, 3, 4, 5, 6},
		{7},
		{0, 7},
		{5, 9},
		{5, 9, 100},
		{1, 50, 51, 52, 999},
		{0, 1, 2, 500, 1000, 1 << 20},
	}
	for _, slots := range cases {
		blob := EncodeSlotsUsed(slots)
		got, err := DecodeSlotsUsed(blob)
		require.NoError(t, err)
		assert.Equal(t, slots, got)
	}
}

func TestSlotsUsedBitmapBoundary(t *testing.T) {
	// All slots within [0,6]: bitmap form, one byte.
	blob := EncodeSlotsUsed([]Slot{0, 6})
	assert.Len(t, blob, 1)
	assert.Less(t, blob[0], byte(0x80))

	// Any slot above 6 forces the length-prefixed form even if most of
	// the set would otherwise fit the bitmap.
	blob = EncodeSlotsUsed([]Slot{0, 6, 7})
	assert.GreaterOrEqual(t, blob[0], byte(0x80))
}

func TestSlotsUsedEmptyIsNil(t *testing.T) {
	assert.Nil(t, EncodeSlotsUsed(nil))
}

func TestDecodeSlotsUsedRejectsEmptyBlob(t *testing.T) {
	_, err := DecodeSlotsUsed(nil)
	require.Error(t, err)
}

func TestSlotsUsedLargeSetUsesVarintLength(t *testing.T) {
	slots := make([]Slot, 0, 200)
	for i := Slot(0); i < 200; i++ {
		slots = append(slots, 10+1000*i)
	}
	blob := EncodeSlotsUsed(slots)
	assert.Equal(t, byte(0x80), blob[0], "a section over 127 bytes carries its length as a varint after a bare 0x80")
	got, err := DecodeSlotsUsed(blob)
	require.NoError(t, err)
	assert.Equal(t, slots, got)
}
