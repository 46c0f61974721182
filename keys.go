package valuestore

import (
	"fmt"

	"github.com/coenergie/valuestore/errs"
	"github.com/coenergie/valuestore/pack"
)

// chunkKeyPrefix namespaces value-chunk keys within the postlist table.
var chunkKeyPrefix = [2]byte{0x00, 0xD8}

// statsKeyPrefix namespaces per-slot statistics keys within the postlist
// table, distinct from chunkKeyPrefix so a cursor walk never confuses the
// two families.
var statsKeyPrefix = [2]byte{0x00, 0xD9}

// ChunkKey builds the key identifying the chunk for slot that starts at
// docFirst: the two-byte chunk namespace prefix, the slot as a plain
// varint, and the first document id as a sort-preserving varint. Because
// the slot varint is prefix-free, all keys of one slot are contiguous in
// key order and sort among themselves by docFirst. Across slots, key
// order follows the little-endian varint bytes, which matches numeric
// slot order only for slots below 128.
func ChunkKey(slot Slot, docFirst DocID) []byte {
	out := make([]byte, 0, 2+10+9)
	out = append(out, chunkKeyPrefix[0], chunkKeyPrefix[1])
	out = pack.Uint(out, uint64(slot))
	out = pack.SortUint(out, uint64(docFirst))
	return out
}

// DecodeChunkKey decodes key as a value-chunk key. It reports ok=false,
// err=nil when key does not belong to the chunk namespace at all (a
// different prefix, e.g. a statistics key or a key from an unrelated
// part of the table) — callers use this to detect "no chunk here"
// without treating it as corruption. Once the namespace prefix matches,
// any further decode failure is reported as an error wrapping
// errs.ErrCorrupt.
func DecodeChunkKey(key []byte) (slot Slot, docFirst DocID, ok bool, err error) {
	if len(key) < 2 || key[0] != chunkKeyPrefix[0] || key[1] != chunkKeyPrefix[1] {
		return 0, 0, false, nil
	}
	rest := key[2:]
	s, rest, err := pack.UnpackUint(rest)
	if err != nil {
		return 0, 0, false, err
	}
	d, rest, err := pack.UnpackSortUint(rest)
	if err != nil {
		return 0, 0, false, err
	}
	if len(rest) != 0 {
		return 0, 0, false, fmt.Errorf("%w: trailing bytes after chunk key", errs.ErrCorrupt)
	}
	return Slot(s), DocID(d), true, nil
}

// StatsKey builds the key under which slot's aggregate statistics are
// stored.
func StatsKey(slot Slot) []byte {
	out := make([]byte, 0, 2+10)
	out = append(out, statsKeyPrefix[0], statsKeyPrefix[1])
	return pack.Uint(out, uint64(slot))
}

// TermlistKey builds the key under which a document's slots-used blob is
// stored in the termlist table. The termlist table is a distinct table
// from the postlist one, so this has no namespace to share with
// ChunkKey/StatsKey.
func TermlistKey(docID DocID) []byte {
	return pack.SortUint(nil, uint64(docID))
}
