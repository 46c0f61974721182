package valuestore

import (
	"strconv"

	"github.com/coenergie/valuestore/kvstore"
	"github.com/coenergie/valuestore/metrics"
	"github.com/coenergie/valuestore/pack"
)

// DefaultChunkSizeThreshold is the tag length, in bytes, at or above
// which a chunk is flushed and a new one started. A single appended entry may
// push a chunk over this threshold; the chunk is still flushed
// immediately afterward rather than mid-entry.
const DefaultChunkSizeThreshold = 2000

// ChunkUpdater applies an ordered sequence of (docid, value-or-delete)
// edits for one slot against the chunks already present in table,
// re-chunking and rekeying as needed. Callers must call Update for each
// edit in strictly increasing docid order, then Finish exactly once.
//
// A ChunkUpdater owns its own table cursor and batch, kept separate from
// any cursor the caller uses for reads, so a merge never interleaves
// with an in-progress point lookup.
type ChunkUpdater struct {
	table kvstore.Table
	batch kvstore.Batch
	slot  Slot

	threshold int

	reader *ChunkReader

	tag       []byte
	prevDocID DocID

	docFirstOld    DocID // 0 if no chunk currently open for rewriting
	docFirstNew    DocID // 0 if tag is empty
	docLastAllowed DocID // 0 if no chunk located yet for the current run
}

// NewChunkUpdater returns an updater for slot that stages its writes
// against table, flushing chunks once their tag reaches threshold bytes.
func NewChunkUpdater(table kvstore.Table, slot Slot, threshold int) *ChunkUpdater {
	return &ChunkUpdater{
		table:     table,
		batch:     table.NewBatch(),
		slot:      slot,
		threshold: threshold,
	}
}

// Update applies a single edit: value == nil or empty means delete the
// entry for docID, otherwise it is an insert or replace. Edits within one
// ChunkUpdater's lifetime must be presented in strictly increasing docID
// order.
func (u *ChunkUpdater) Update(docID DocID, value []byte) error {
	if u.docLastAllowed != 0 && docID > u.docLastAllowed {
		// The edit belongs in a chunk further along than the one we're
		// currently rewriting: drain what's left of it, flush, and fall
		// through to relocate below.
		if err := u.drainReader(); err != nil {
			return err
		}
		if err := u.flushChunk(); err != nil {
			return err
		}
		u.docLastAllowed = 0
	}

	if u.docLastAllowed == 0 {
		if err := u.locateChunk(docID); err != nil {
			return err
		}
	}

	for u.reader != nil && u.reader.DocID() < docID {
		atEnd := u.reader.AtEnd()
		if err := u.appendEntry(u.reader.DocID(), u.reader.Value()); err != nil {
			return err
		}
		if atEnd {
			u.reader = nil
			break
		}
		if err := u.reader.Next(); err != nil {
			return err
		}
	}
	if u.reader != nil && u.reader.DocID() == docID {
		if u.reader.AtEnd() {
			u.reader = nil
		} else if err := u.reader.Next(); err != nil {
			return err
		}
	}
	if len(value) > 0 {
		if err := u.appendEntry(docID, value); err != nil {
			return err
		}
	}
	return nil
}

// locateChunk positions u.reader on the chunk covering docID (or leaves
// it nil if none exists) and sets docFirstOld/docLastAllowed accordingly.
func (u *ChunkUpdater) locateChunk(docID DocID) error {
	u.docLastAllowed = DocMax
	u.docFirstNew = 0
	u.reader = nil

	cur, err := u.table.NewCursor()
	if err != nil {
		return err
	}
	defer cur.Close()

	exact, err := cur.FindEntry(ChunkKey(u.slot, docID))
	if err != nil {
		return err
	}
	switch {
	case exact:
		u.docFirstOld = docID
		u.reader, err = NewChunkReader(cur.Tag(), u.docFirstOld)
		if err != nil {
			return err
		}
	case cur.Valid():
		slot, docFirst, ok, derr := DecodeChunkKey(cur.Key())
		if derr != nil {
			return derr
		}
		if ok && slot == u.slot {
			u.docFirstOld = docFirst
			u.reader, err = NewChunkReader(cur.Tag(), u.docFirstOld)
			if err != nil {
				return err
			}
		} else {
			u.docFirstOld = 0
		}
	default:
		u.docFirstOld = 0
	}

	if cur.Next() {
		slot, docFirst, ok, derr := DecodeChunkKey(cur.Key())
		if derr != nil {
			return derr
		}
		if ok && slot == u.slot && docFirst != 0 {
			u.docLastAllowed = docFirst - 1
		}
	}
	return nil
}

// drainReader appends every entry remaining in u.reader, including the
// final one AtEnd reports on, then clears u.reader.
func (u *ChunkUpdater) drainReader() error {
	for u.reader != nil {
		atEnd := u.reader.AtEnd()
		if err := u.appendEntry(u.reader.DocID(), u.reader.Value()); err != nil {
			return err
		}
		if atEnd {
			u.reader = nil
			break
		}
		if err := u.reader.Next(); err != nil {
			return err
		}
	}
	return nil
}

func (u *ChunkUpdater) appendEntry(docID DocID, value []byte) error {
	if len(u.tag) == 0 {
		u.docFirstNew = docID
	} else {
		if docID <= u.prevDocID {
			panic("valuestore: chunk entries must have strictly increasing docids")
		}
		u.tag = pack.Uint(u.tag, uint64(docID-u.prevDocID-1))
	}
	u.tag = pack.String(u.tag, value)
	u.prevDocID = docID
	if len(u.tag) >= u.threshold {
		return u.flushChunk()
	}
	return nil
}

func (u *ChunkUpdater) flushChunk() error {
	slotLabel := strconv.FormatUint(uint64(u.slot), 10)
	if u.docFirstOld != 0 && u.docFirstNew != u.docFirstOld {
		u.batch.Del(ChunkKey(u.slot, u.docFirstOld))
		metrics.ChunkRekeys.WithLabelValues(slotLabel).Inc()
	}
	if len(u.tag) > 0 {
		u.batch.Add(ChunkKey(u.slot, u.docFirstNew), u.tag)
		metrics.ChunkTagSize.WithLabelValues(slotLabel).Observe(float64(len(u.tag)))
		metrics.ChunkMerges.WithLabelValues(slotLabel).Inc()
	} else if u.docFirstOld != 0 {
		metrics.ChunkDeletes.WithLabelValues(slotLabel).Inc()
	}
	u.docFirstOld = 0
	u.docFirstNew = 0
	u.tag = nil
	return nil
}

// Finish drains any remaining reader entries, flushes the last open
// chunk, and commits every staged add/delete atomically. It must be
// called exactly once, even if no edits were applied — an empty run is
// a committed no-op.
func (u *ChunkUpdater) Finish() error {
	if err := u.drainReader(); err != nil {
		return err
	}
	if err := u.flushChunk(); err != nil {
		return err
	}
	return u.batch.Commit()
}
