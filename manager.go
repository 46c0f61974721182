package valuestore

import (
	"bytes"
	"sort"

	"github.com/coenergie/valuestore/errs"
	"github.com/coenergie/valuestore/kvstore"
	"github.com/coenergie/valuestore/logging"
)

// ValueManager buffers pending per-slot edits, computes and recovers the
// per-document slots-used summary, maintains per-slot statistics, and
// answers point queries against the chunked column storage described by
// ChunkKey/ChunkReader/ChunkUpdater.
//
// A ValueManager is not safe for concurrent use; the caller is expected
// to serialize access the same way it serializes writes to the
// underlying tables.
type ValueManager struct {
	postlist kvstore.Table
	termlist kvstore.Table
	stats    *StatStore

	edits       map[Slot]map[DocID][]byte
	stagedSlots map[DocID][]byte

	chunkThreshold int
	log            logging.Logger
}

// NewValueManager builds a manager over postlist (which holds value
// chunks and statistics) and termlist (which holds per-document
// slots-used blobs). termlist may be nil, meaning the subsystem was
// opened without a termlist table; GetAllValues then fails with
// ErrFeatureUnavailable rather than ErrDatabaseClosed. log may be nil,
// in which case logging is discarded.
func NewValueManager(postlist, termlist kvstore.Table, chunkThreshold int, log logging.Logger) (*ValueManager, error) {
	stats, err := NewStatStore(postlist)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop
	}
	return &ValueManager{
		postlist:       postlist,
		termlist:       termlist,
		stats:          stats,
		edits:          make(map[Slot]map[DocID][]byte),
		stagedSlots:    make(map[DocID][]byte),
		chunkThreshold: chunkThreshold,
		log:            log,
	}, nil
}

func (m *ValueManager) editsFor(slot Slot) map[DocID][]byte {
	e, ok := m.edits[slot]
	if !ok {
		e = make(map[DocID][]byte)
		m.edits[slot] = e
	}
	return e
}

// AddValue stages value for (docID, slot). No table I/O happens until
// MergeChanges.
func (m *ValueManager) AddValue(docID DocID, slot Slot, value []byte) {
	m.editsFor(slot)[docID] = value
}

// RemoveValue stages a deletion of (docID, slot).
func (m *ValueManager) RemoveValue(docID DocID, slot Slot) {
	m.editsFor(slot)[docID] = []byte{}
}

// GetValue returns the value stored for (docID, slot): from the pending
// edit buffer if present, otherwise read through to the chunk covering
// docID. It returns a nil slice, not an error, when no value is stored.
func (m *ValueManager) GetValue(docID DocID, slot Slot) ([]byte, error) {
	if e, ok := m.edits[slot]; ok {
		if v, ok := e[docID]; ok {
			if len(v) == 0 {
				return nil, nil
			}
			return v, nil
		}
	}

	tag, docFirst, err := m.findChunk(slot, docID)
	if err != nil {
		return nil, err
	}
	if docFirst == 0 {
		return nil, nil
	}
	reader, err := NewChunkReader(tag, docFirst)
	if err != nil {
		return nil, err
	}
	if err := reader.SkipTo(docID); err != nil {
		return nil, err
	}
	// SkipTo lands on the first entry at or after docID, or on the chunk's
	// final entry if none is; AtEnd alone doesn't mean "not found" since
	// the match itself may be the chunk's last entry.
	if reader.DocID() != docID {
		return nil, nil
	}
	return reader.Value(), nil
}

// findChunk locates the chunk covering (slot, docID), per §4.6: seek to
// the chunk key, and if there's no exact match, check whether the
// cursor landed on an earlier chunk for the same slot. docFirst == 0
// means no chunk covers docID.
func (m *ValueManager) findChunk(slot Slot, docID DocID) (tag []byte, docFirst DocID, err error) {
	cur, err := m.postlist.NewCursor()
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close()

	exact, err := cur.FindEntry(ChunkKey(slot, docID))
	if err != nil {
		return nil, 0, err
	}
	if exact {
		return cur.Tag(), docID, nil
	}
	if !cur.Valid() {
		return nil, 0, nil
	}
	foundSlot, foundDocFirst, ok, err := DecodeChunkKey(cur.Key())
	if err != nil {
		return nil, 0, err
	}
	if !ok || foundSlot != slot {
		return nil, 0, nil
	}
	return cur.Tag(), foundDocFirst, nil
}

// AddDocument enumerates doc's (slot, value) pairs, folds each into
// statsOut and the edit buffer, and returns the slots-used blob to be
// stored under TermlistKey(docID) — or nil if the manager has no
// termlist table, or the document has no values at all.
func (m *ValueManager) AddDocument(docID DocID, doc Document, statsOut ValueStatsBatch) ([]byte, error) {
	var slots []Slot
	for slot, value := range doc.Values() {
		stats, err := m.statsFor(statsOut, slot)
		if err != nil {
			return nil, err
		}

		wasZero := stats.Freq == 0
		stats.Freq++
		if wasZero {
			lower := append([]byte(nil), value...)
			upper := append([]byte(nil), value...)
			stats.Lower, stats.Upper = lower, upper
		} else {
			switch bytes.Compare(value, stats.Upper) {
			case 1:
				stats.Upper = append([]byte(nil), value...)
			case -1:
				if bytes.Compare(value, stats.Lower) < 0 {
					stats.Lower = append([]byte(nil), value...)
				}
			}
		}

		m.AddValue(docID, slot, value)
		slots = append(slots, slot)
	}

	if len(slots) == 0 {
		if _, ok := m.stagedSlots[docID]; ok {
			m.stagedSlots[docID] = nil
		}
		return nil, nil
	}

	if m.termlist == nil {
		return nil, nil
	}

	blob := EncodeSlotsUsed(slots)
	m.stagedSlots[docID] = blob
	return blob, nil
}

func (m *ValueManager) statsFor(statsOut ValueStatsBatch, slot Slot) (*ValueStats, error) {
	if stats, ok := statsOut[slot]; ok {
		return stats, nil
	}
	loaded, err := m.stats.Get(slot)
	if err != nil {
		return nil, err
	}
	stats := &loaded
	statsOut[slot] = stats
	return stats, nil
}

// DeleteDocument recovers docID's slots-used blob (from this batch's
// staging map, or from the termlist table), decrements statsOut for
// every slot it names, and stages a removal of each of those values.
// It is a no-op if docID has no recorded values.
func (m *ValueManager) DeleteDocument(docID DocID, statsOut ValueStatsBatch) error {
	blob, ok := m.stagedSlots[docID]
	if !ok {
		if m.termlist == nil {
			return nil
		}
		tag, found, err := m.termlist.GetExact(TermlistKey(docID))
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		blob = tag
	}
	m.stagedSlots[docID] = nil

	if len(blob) == 0 {
		return nil
	}
	slots, err := DecodeSlotsUsed(blob)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		stats, err := m.statsFor(statsOut, slot)
		if err != nil {
			return err
		}
		stats.Freq--
		if stats.Freq == 0 {
			stats.Lower = nil
			stats.Upper = nil
		}
		m.RemoveValue(docID, slot)
	}
	return nil
}

// ReplaceDocument deletes docID's existing values and re-adds doc's. If
// doc's own id equals docID, doc is read into memory before the delete
// runs, so that a Document backed by a live read of this same store does
// not see its own values vanish out from under it.
func (m *ValueManager) ReplaceDocument(docID DocID, doc Document, statsOut ValueStatsBatch) ([]byte, error) {
	if doc.SourceID() == docID {
		var pairs []SlotValue
		for slot, value := range doc.Values() {
			pairs = append(pairs, SlotValue{Slot: slot, Value: append([]byte(nil), value...)})
		}
		doc = NewSimpleDocument(doc.SourceID(), pairs...)
	}
	if err := m.DeleteDocument(docID, statsOut); err != nil {
		return nil, err
	}
	return m.AddDocument(docID, doc, statsOut)
}

// MergeChanges drains the edit buffer, feeding each slot's edits through
// a fresh ChunkUpdater in ascending docid order, and clears the buffer.
// Slots are processed independently, in ascending slot order.
func (m *ValueManager) MergeChanges() error {
	slots := make([]Slot, 0, len(m.edits))
	for slot := range m.edits {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	for _, slot := range slots {
		slotEdits := m.edits[slot]
		docs := make([]DocID, 0, len(slotEdits))
		for docID := range slotEdits {
			docs = append(docs, docID)
		}
		sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })

		updater := NewChunkUpdater(m.postlist, slot, m.chunkThreshold)
		for _, docID := range docs {
			if err := updater.Update(docID, slotEdits[docID]); err != nil {
				return err
			}
		}
		if err := updater.Finish(); err != nil {
			return err
		}
		m.log.Debug("merged slot", "slot", slot, "edits", len(docs))
	}

	m.edits = make(map[Slot]map[DocID][]byte)
	return nil
}

// GetAllValues returns every (slot, value) pair recorded for docID via
// its persisted slots-used blob. It returns ErrFeatureUnavailable if the
// manager has no termlist table, or ErrDatabaseClosed if it has neither
// table.
func (m *ValueManager) GetAllValues(docID DocID) (map[Slot][]byte, error) {
	if m.termlist == nil {
		if m.postlist == nil {
			return nil, errs.ErrDatabaseClosed
		}
		return nil, errs.ErrFeatureUnavailable
	}

	tag, found, err := m.termlist.GetExact(TermlistKey(docID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	slots, err := DecodeSlotsUsed(tag)
	if err != nil {
		return nil, err
	}

	out := make(map[Slot][]byte, len(slots))
	for _, slot := range slots {
		v, err := m.GetValue(docID, slot)
		if err != nil {
			return nil, err
		}
		out[slot] = v
	}
	return out, nil
}

// GetValueStats returns slot's aggregate statistics.
func (m *ValueManager) GetValueStats(slot Slot) (ValueStats, error) {
	return m.stats.Get(slot)
}

// SetValueStats persists every entry of batch and clears the stats
// cache, per §4.7. Callers typically call this once per commit, after
// accumulating statsOut across a batch of AddDocument/DeleteDocument/
// ReplaceDocument calls.
func (m *ValueManager) SetValueStats(batch ValueStatsBatch) error {
	wb := m.postlist.NewBatch()
	m.stats.Set(wb, batch)
	return wb.Commit()
}
