package valuestore

import (
	"fmt"

	"github.com/coenergie/valuestore/bitcoder"
	"github.com/coenergie/valuestore/errs"
	"github.com/coenergie/valuestore/pack"
)

// smallSlotBitmapBound is the highest slot number that still fits in the
// 7-bit bitmap representation of EncodeSlotsUsed.
const smallSlotBitmapBound = 6

// EncodeSlotsUsed packs a document's sorted, distinct set of used slots
// into a compact blob. Slot sets that fit entirely within [0, 6] use a
// one-byte bitmap; everything else uses a length-prefixed section built
// around an interpolative encoding of the slots strictly between the
// smallest and largest.
func EncodeSlotsUsed(slots []Slot) []byte {
	if len(slots) == 0 {
		return nil
	}

	allSmall := true
	for _, s := range slots {
		if s > smallSlotBitmapBound {
			allSmall = false
			break
		}
	}
	if allSmall {
		var bitmap byte
		for _, s := range slots {
			bitmap |= 1 << uint(s)
		}
		return []byte{bitmap}
	}

	n := len(slots)
	firstSlot, lastSlot := slots[0], slots[n-1]

	inner := pack.Uint(nil, uint64(lastSlot))
	if n >= 2 {
		w := bitcoder.NewWriter()
		w.Encode(uint64(firstSlot), uint64(lastSlot))
		w.Encode(uint64(n-2), uint64(lastSlot-firstSlot))
		values := make([]uint64, n)
		for i, s := range slots {
			values[i] = uint64(s)
		}
		w.EncodeInterpolative(values, 0, n-1)
		inner = append(inner, w.Bytes()...)
	}

	out := make([]byte, 0, len(inner)+5)
	if len(inner) <= 0x7f {
		out = append(out, 0x80|byte(len(inner)))
	} else {
		out = append(out, 0x80)
		out = pack.Uint(out, uint64(len(inner)))
	}
	return append(out, inner...)
}

// DecodeSlotsUsed recovers the slot set packed by EncodeSlotsUsed, in
// ascending order.
func DecodeSlotsUsed(blob []byte) ([]Slot, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: empty slots-used blob", errs.ErrCorrupt)
	}

	b0 := blob[0]
	if b0 < 0x80 {
		var slots []Slot
		for i := 0; i <= smallSlotBitmapBound; i++ {
			if b0&(1<<uint(i)) != 0 {
				slots = append(slots, Slot(i))
			}
		}
		return slots, nil
	}

	rest := blob[1:]
	size := int(b0 & 0x7f)
	if size == 0 {
		n, r, err := pack.UnpackUint(rest)
		if err != nil {
			return nil, err
		}
		size = int(n)
		rest = r
	}
	if size > len(rest) {
		return nil, fmt.Errorf("%w: slots-used section length %d exceeds remaining %d bytes", errs.ErrCorrupt, size, len(rest))
	}
	section := rest[:size]

	lastSlot64, section, err := pack.UnpackUint(section)
	if err != nil {
		return nil, err
	}
	lastSlot := Slot(lastSlot64)
	if len(section) == 0 {
		return []Slot{lastSlot}, nil
	}

	r := bitcoder.NewReader(section)
	firstSlot := Slot(r.Decode(uint64(lastSlot)))
	count := int(r.Decode(uint64(lastSlot-firstSlot))) + 2
	r.DecodeInterpolative(0, count-1, uint64(firstSlot), uint64(lastSlot))

	slots := make([]Slot, 0, count)
	slots = append(slots, firstSlot)
	slot := firstSlot
	for slot != lastSlot {
		slot = Slot(r.DecodeInterpolativeNext())
		slots = append(slots, slot)
	}
	return slots, nil
}
