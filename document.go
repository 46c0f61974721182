package valuestore

import (
	"iter"
	"sort"
)

// Document supplies the (slot, value) pairs the value manager stores
// for one document. Values must be enumerated in ascending slot order
// and must never include an empty value (empty means "absent").
type Document interface {
	// SourceID is the document's own id. ReplaceDocument compares this
	// against the target docid to detect the self-replace case.
	SourceID() DocID

	// Values iterates the document's (slot, value) pairs.
	Values() iter.Seq2[Slot, []byte]
}

// SlotValue pairs a slot with its value, used to build a SimpleDocument.
type SlotValue struct {
	Slot  Slot
	Value []byte
}

// SimpleDocument is an in-memory Document backed by a slice of
// SlotValue, sorted by slot on construction. It is the Document used by
// tests and by callers that already have a document's values in hand.
type SimpleDocument struct {
	id    DocID
	pairs []SlotValue
}

// NewSimpleDocument returns a Document with the given id and pairs,
// sorted into ascending slot order.
func NewSimpleDocument(id DocID, pairs ...SlotValue) *SimpleDocument {
	sorted := append([]SlotValue(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })
	return &SimpleDocument{id: id, pairs: sorted}
}

func (d *SimpleDocument) SourceID() DocID { return d.id }

func (d *SimpleDocument) Values() iter.Seq2[Slot, []byte] {
	return func(yield func(Slot, []byte) bool) {
		for _, p := range d.pairs {
			if !yield(p.Slot, p.Value) {
				return
			}
		}
	}
}
