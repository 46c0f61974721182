package valuestore

import "github.com/coenergie/valuestore/pack"

// ChunkReader streams (docid, value) pairs out of a single chunk tag, in
// increasing docid order. The first entry is decoded eagerly at
// construction; callers advance with Next or jump forward with SkipTo.
type ChunkReader struct {
	rest  []byte
	ended bool
	docID DocID
	value []byte
}

// NewChunkReader decodes the first entry of tag, a chunk whose first
// document id is docFirst.
func NewChunkReader(tag []byte, docFirst DocID) (*ChunkReader, error) {
	value, rest, err := pack.UnpackString(tag)
	if err != nil {
		return nil, err
	}
	return &ChunkReader{rest: rest, docID: docFirst, value: value, ended: len(rest) == 0}, nil
}

// AtEnd reports whether the current entry (DocID/Value) is the last one
// available. The current entry is still valid when AtEnd is true; Next
// simply becomes a no-op afterward.
func (r *ChunkReader) AtEnd() bool { return r.ended }

// DocID returns the current entry's document id.
func (r *ChunkReader) DocID() DocID { return r.docID }

// Value returns the current entry's value.
func (r *ChunkReader) Value() []byte { return r.value }

// Next advances to the following entry, decoding its delta-encoded
// docid and its value. It is a no-op once AtEnd is true.
func (r *ChunkReader) Next() error {
	if r.ended {
		return nil
	}
	delta, rest, err := pack.UnpackUint(r.rest)
	if err != nil {
		return err
	}
	value, rest, err := pack.UnpackString(rest)
	if err != nil {
		return err
	}
	r.docID += DocID(delta) + 1
	r.value = value
	r.rest = rest
	r.ended = len(rest) == 0
	return nil
}

// SkipTo advances until the current entry's docid is >= target, or the
// chunk is exhausted. It is a no-op if target is already <= the current
// docid. Skipped values are never copied, only sliced over.
func (r *ChunkReader) SkipTo(target DocID) error {
	if r.ended || target <= r.docID {
		return nil
	}
	for {
		delta, rest, err := pack.UnpackUint(r.rest)
		if err != nil {
			return err
		}
		value, rest, err := pack.UnpackString(rest)
		if err != nil {
			return err
		}
		r.docID += DocID(delta) + 1
		r.value = value
		r.rest = rest
		r.ended = len(rest) == 0
		if r.docID >= target {
			return nil
		}
		if r.ended {
			return nil
		}
	}
}
