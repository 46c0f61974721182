package valuestore

// DocID is a document identifier: a positive integer, dense but often
// sparse after deletions.
type DocID uint64

// DocMax is the largest representable document id, used as the implicit
// upper bound of a slot's final chunk.
const DocMax DocID = 1<<64 - 2

// Slot is a numeric key under which a document stores at most one value.
type Slot uint64

// SlotBad is the reserved sentinel meaning "no slot".
const SlotBad Slot = 1<<64 - 1
