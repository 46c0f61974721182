package bitcoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeFixedRange(t *testing.T) {
	cases := []struct{ value, outof uint64 }{
		{0, 0}, {0, 1}, {1, 1}, {5, 10}, {1000, 1000}, {0, 1 << 20}, {12345, 1 << 20},
	}
	w := NewWriter()
	for _, c := range cases {
		w.Encode(c.value, c.outof)
	}
	r := NewReader(w.Bytes())
	for _, c := range cases {
		got := r.Decode(c.outof)
		assert.Equal(t, c.value, got)
	}
}

// roundTripInterpolative encodes values (sorted, strictly increasing) the
// way the slots-used blob does: first and last are carried separately,
// the interior goes through EncodeInterpolative/DecodeInterpolativeNext.
func roundTripInterpolative(t *testing.T, values []uint64) {
	t.Helper()
	n := len(values)
	w := NewWriter()
	w.EncodeInterpolative(values, 0, n-1)

	r := NewReader(w.Bytes())
	r.DecodeInterpolative(0, n-1, values[0], values[n-1])

	got := make([]uint64, 0, n)
	got = append(got, values[0])
	slot := values[0]
	for slot != values[n-1] {
		slot = r.DecodeInterpolativeNext()
		got = append(got, slot)
	}
	assert.Equal(t, values, got)
}

func TestInterpolativeRoundTripSizes(t *testing.T) {
	roundTripInterpolative(t, []uint64{5})
	roundTripInterpolative(t, []uint64{5, 100})
	roundTripInterpolative(t, []uint64{5, 9, 100})
	roundTripInterpolative(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	roundTripInterpolative(t, []uint64{3, 7, 8, 50, 999, 1000000})
}

func TestInterpolativeRoundTripDenseAndSparse(t *testing.T) {
	dense := make([]uint64, 0, 200)
	for i := uint64(0); i < 200; i++ {
		dense = append(dense, i)
	}
	roundTripInterpolative(t, dense)

	sparse := []uint64{1, 17, 512, 4096, 999999, 1000000}
	roundTripInterpolative(t, sparse)
}
