package metrics

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

// PebbleCollector reports the backlog and memory footprint of a Pebble
// handle on every scrape. Chunk merges are the dominant write load
// against the postlist table, so a growing compaction debt means merges
// are outpacing compaction; a growing memtable means writes are arriving
// faster than they're being flushed.
type PebbleCollector struct {
	db *pebble.DB

	compactionEstimatedDebt *prometheus.Desc
	compactionInProgress    *prometheus.Desc
	memtableSize            *prometheus.Desc
}

// NewPebbleCollector returns a Collector reporting on db, the Pebble
// handle backing the value store's postlist (and, if shared, termlist)
// table.
func NewPebbleCollector(db *pebble.DB) *PebbleCollector {
	return &PebbleCollector{
		db: db,
		compactionEstimatedDebt: prometheus.NewDesc(
			"valuestore_pebble_compaction_estimated_debt_bytes",
			"Estimated number of bytes that need to be compacted to reach a stable state",
			nil, nil,
		),
		compactionInProgress: prometheus.NewDesc(
			"valuestore_pebble_compaction_in_progress_bytes",
			"Number of bytes being compacted currently",
			nil, nil,
		),
		memtableSize: prometheus.NewDesc(
			"valuestore_pebble_memtable_size_bytes",
			"Current size of the memtable in bytes",
			nil, nil,
		),
	}
}

func (pc *PebbleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pc.compactionEstimatedDebt
	ch <- pc.compactionInProgress
	ch <- pc.memtableSize
}

func (pc *PebbleCollector) Collect(ch chan<- prometheus.Metric) {
	m := pc.db.Metrics()
	ch <- prometheus.MustNewConstMetric(pc.compactionEstimatedDebt, prometheus.GaugeValue, float64(m.Compact.EstimatedDebt))
	ch <- prometheus.MustNewConstMetric(pc.compactionInProgress, prometheus.GaugeValue, float64(m.Compact.InProgressBytes))
	ch <- prometheus.MustNewConstMetric(pc.memtableSize, prometheus.GaugeValue, float64(m.MemTable.Size))
}
