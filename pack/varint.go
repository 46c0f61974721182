// Package pack implements the bit-exact serialization primitives used by
// the value storage subsystem: a little-endian base-128 varint, a
// length-prefixed byte string built on top of it, and a length-prefixed
// big-endian sort-preserving unsigned integer encoding used inside chunk
// keys.
//
// Every codec works directly on byte slices: no bufio, no io.Reader, just
// slices in and slices out.
package pack

import (
	"encoding/binary"
	"fmt"

	"github.com/coenergie/valuestore/errs"
)

// Uint appends n to out using a 7-bit-per-byte, little-endian base-128
// varint: each byte carries 7 value bits, with the continuation bit (0x80)
// set on every byte but the last.
func Uint(out []byte, n uint64) []byte {
	for n >= 0x80 {
		out = append(out, byte(n)|0x80)
		n >>= 7
	}
	return append(out, byte(n))
}

// UnpackUint decodes a varint from the front of in, returning the decoded
// value and the unconsumed remainder. It fails with errs.ErrCorrupt if in
// is exhausted before a terminating byte is seen, or if the value would
// overflow 64 bits.
func UnpackUint(in []byte) (n uint64, rest []byte, err error) {
	var shift uint
	for i := 0; i < len(in); i++ {
		b := in[i]
		if shift >= 64 || (shift == 63 && b > 1) {
			return 0, nil, fmt.Errorf("%w: varint overflow", errs.ErrCorrupt)
		}
		n |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return n, in[i+1:], nil
		}
		shift += 7
	}
	return 0, nil, fmt.Errorf("%w: truncated varint", errs.ErrCorrupt)
}

// String appends a length-prefixed byte string to out: Uint(len(s))
// followed by the raw bytes of s.
func String(out []byte, s []byte) []byte {
	out = Uint(out, uint64(len(s)))
	return append(out, s...)
}

// UnpackString decodes a length-prefixed byte string from the front of in.
func UnpackString(in []byte) (s []byte, rest []byte, err error) {
	n, rest, err := UnpackUint(in)
	if err != nil {
		return nil, nil, err
	}
	if n > uint64(len(rest)) {
		return nil, nil, fmt.Errorf("%w: string length %d exceeds remaining %d bytes", errs.ErrCorrupt, n, len(rest))
	}
	return rest[:n], rest[n:], nil
}

// byteWidth returns the number of bytes needed to hold n in a big-endian
// fixed-width encoding, restricted to the widths SortUint supports.
func byteWidth(n uint64) int {
	switch {
	case n <= 0xff:
		return 1
	case n <= 0xffff:
		return 2
	case n <= 0xffffff:
		return 3
	case n <= 0xffffffff:
		return 4
	case n <= 0xffffffffff:
		return 5
	case n <= 0xffffffffffff:
		return 6
	case n <= 0xffffffffffffff:
		return 7
	default:
		return 8
	}
}

// SortUint appends n to out in a self-delimiting, big-endian encoding
// whose lexicographic byte order matches numeric order: a one-byte length
// prefix (the number of value bytes that follow, 0-8) followed by n's
// minimal big-endian representation. Because the length prefix sorts ahead
// of the value bytes and a longer encoding always means a larger value,
// byte-wise comparison of two SortUint encodings agrees with numeric
// comparison of the two integers.
func SortUint(out []byte, n uint64) []byte {
	w := byteWidth(n)
	if n == 0 {
		w = 0
	}
	out = append(out, byte(w))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return append(out, buf[8-w:]...)
}

// UnpackSortUint decodes a SortUint encoding from the front of in.
func UnpackSortUint(in []byte) (n uint64, rest []byte, err error) {
	if len(in) == 0 {
		return 0, nil, fmt.Errorf("%w: truncated sort-preserving uint", errs.ErrCorrupt)
	}
	w := int(in[0])
	if w > 8 {
		return 0, nil, fmt.Errorf("%w: sort-preserving uint width %d out of range", errs.ErrCorrupt, w)
	}
	if 1+w > len(in) {
		return 0, nil, fmt.Errorf("%w: truncated sort-preserving uint", errs.ErrCorrupt)
	}
	var buf [8]byte
	copy(buf[8-w:], in[1:1+w])
	n = binary.BigEndian.Uint64(buf[:])
	return n, in[1+w:], nil
}
