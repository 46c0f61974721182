package valuestore

import (
	"bytes"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/coenergie/valuestore/kvstore"
	"github.com/coenergie/valuestore/pack"
)

// ValueStats holds the aggregate statistics tracked for one slot: how
// many documents have a non-empty value there, and the lexicographic
// lower/upper bounds among those values.
type ValueStats struct {
	Freq  uint64
	Lower []byte
	Upper []byte
}

// Clear resets stats to the zero-frequency state.
func (s *ValueStats) Clear() {
	s.Freq = 0
	s.Lower = nil
	s.Upper = nil
}

// ValueStatsBatch accumulates per-slot statistics across a batch of
// AddDocument/DeleteDocument/ReplaceDocument calls, to be persisted in
// one call to ValueManager.SetValueStats.
type ValueStatsBatch map[Slot]*ValueStats

func decodeValueStats(tag []byte) (ValueStats, error) {
	freq, rest, err := pack.UnpackUint(tag)
	if err != nil {
		return ValueStats{}, err
	}
	lower, rest, err := pack.UnpackString(rest)
	if err != nil {
		return ValueStats{}, err
	}
	upper := lower
	if len(rest) > 0 {
		upper = rest
	}
	return ValueStats{Freq: freq, Lower: lower, Upper: upper}, nil
}

func encodeValueStats(stats ValueStats) []byte {
	out := pack.Uint(nil, stats.Freq)
	out = pack.String(out, stats.Lower)
	if !bytes.Equal(stats.Upper, stats.Lower) {
		out = append(out, stats.Upper...)
	}
	return out
}

// StatStore reads and writes per-slot ValueStats records in a table,
// backed by a single-entry most-recently-used cache so that a run of
// operations touching the same slot only decodes its record once.
type StatStore struct {
	table kvstore.Table
	cache *lru.Cache[Slot, ValueStats]
}

// NewStatStore returns a StatStore reading and writing through table.
func NewStatStore(table kvstore.Table) (*StatStore, error) {
	cache, err := lru.New[Slot, ValueStats](1)
	if err != nil {
		return nil, err
	}
	return &StatStore{table: table, cache: cache}, nil
}

// Get returns slot's statistics, or a zero ValueStats if none are
// stored.
func (s *StatStore) Get(slot Slot) (ValueStats, error) {
	if stats, ok := s.cache.Get(slot); ok {
		return stats, nil
	}

	tag, found, err := s.table.GetExact(StatsKey(slot))
	if err != nil {
		return ValueStats{}, err
	}
	var stats ValueStats
	if found {
		stats, err = decodeValueStats(tag)
		if err != nil {
			return ValueStats{}, err
		}
	}
	s.cache.Add(slot, stats)
	return stats, nil
}

// Set persists every entry of batch: a zero-frequency entry deletes its
// key, everything else overwrites it. The MRU cache is purged
// unconditionally, since any of its slots may have just been rewritten.
func (s *StatStore) Set(wb kvstore.Batch, batch ValueStatsBatch) {
	for slot, stats := range batch {
		key := StatsKey(slot)
		if stats.Freq == 0 {
			wb.Del(key)
		} else {
			wb.Add(key, encodeValueStats(*stats))
		}
	}
	s.cache.Purge()
}
