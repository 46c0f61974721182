// Package metrics exposes Prometheus instrumentation for the value
// storage subsystem: counters for chunk merges/rekeys/deletions, a
// histogram for chunk tag sizes, and a Collector pulling live stats off
// the Pebble handle backing the tables.
package metrics

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var ChunkMerges = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "valuestore",
	Subsystem: "chunks",
	Name:      "merges_total",
}, []string{"slot"})

var ChunkRekeys = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "valuestore",
	Subsystem: "chunks",
	Name:      "rekeys_total",
}, []string{"slot"})

var ChunkDeletes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "valuestore",
	Subsystem: "chunks",
	Name:      "emptied_total",
}, []string{"slot"})

var ChunkTagSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "valuestore",
	Subsystem: "chunks",
	Name:      "tag_size_bytes",
	Buckets:   []float64{64, 256, 512, 1024, 1536, 2000, 2500, 4096},
}, []string{"slot"})

// Register adds every collector in this package to reg, plus a
// PebbleCollector reporting on db.
func Register(reg prometheus.Registerer, db *pebble.DB) error {
	collectors := []prometheus.Collector{ChunkMerges, ChunkRekeys, ChunkDeletes, ChunkTagSize}
	collectors = append(collectors, NewPebbleCollector(db))
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
