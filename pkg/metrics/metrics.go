package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// EntriesTotal counts submitted envelopes by final outcome.
	EntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventbus_entries_total",
			Help: "Envelopes submitted for publishing, by bus and outcome",
		},
		[]string{"bus", "outcome"},
	)

	// BatchesTotal counts transport dispatch calls by result.
	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventbus_batches_total",
			Help: "Transport batch dispatch calls, by bus and status",
		},
		[]string{"bus", "status"},
	)

	// EntrySize observes serialized entry sizes that passed the size guard.
	EntrySize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventbus_entry_bytes",
			Help:    "Serialized entry size in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		},
	)
)

// Register registers all publishing metrics with r. Collectors work
// unregistered, so callers that do not scrape can skip this.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{EntriesTotal, BatchesTotal, EntrySize} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
