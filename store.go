package valuestore

import (
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coenergie/valuestore/kvstore"
	"github.com/coenergie/valuestore/logging"
	"github.com/coenergie/valuestore/metrics"
)

// Open opens (or creates) the on-disk tables described by cfg and
// returns a ready-to-use ValueManager along with a function that closes
// every table it opened. cfg's zero-value fields are filled in with
// SetDefaults before use. If reg is non-nil, this subsystem's metrics
// (including a PebbleCollector over the postlist table) are registered
// with it.
func Open(cfg *Config, log logging.Logger, reg prometheus.Registerer) (*ValueManager, func() error, error) {
	cfg.SetDefaults()

	postlist, err := kvstore.OpenPebbleTable(filepath.Join(cfg.PebbleDir, "postlist"))
	if err != nil {
		return nil, nil, err
	}

	var termlist kvstore.Table
	if cfg.WithTermlist {
		tl, err := kvstore.OpenPebbleTable(filepath.Join(cfg.PebbleDir, "termlist"))
		if err != nil {
			_ = postlist.Close()
			return nil, nil, err
		}
		termlist = tl
	}

	if reg != nil {
		if err := metrics.Register(reg, postlist.DB()); err != nil {
			_ = postlist.Close()
			if termlist != nil {
				_ = termlist.Close()
			}
			return nil, nil, err
		}
	}

	mgr, err := NewValueManager(postlist, termlist, cfg.ChunkSizeThreshold, log)
	if err != nil {
		_ = postlist.Close()
		if termlist != nil {
			_ = termlist.Close()
		}
		return nil, nil, err
	}

	closeAll := func() error {
		var first error
		if termlist != nil {
			if err := termlist.Close(); err != nil && first == nil {
				first = err
			}
		}
		if err := postlist.Close(); err != nil && first == nil {
			first = err
		}
		return first
	}
	return mgr, closeAll, nil
}
