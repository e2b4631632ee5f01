package querycache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	fetches       prometheus.Counter
	errors        prometheus.Counter
	invalidations prometheus.Counter
}

// newMetrics creates the cache counters on reg. A nil reg creates
// unregistered counters.
func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	factory := promauto.With(reg)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "querycache",
			Name:      name,
			Help:      help,
		})
	}
	return &metrics{
		hits:          counter("hits_total", "Queries answered from the cache."),
		misses:        counter("misses_total", "Queries that found no fresh cache entry."),
		fetches:       counter("fetches_total", "Fetches started against the data source."),
		errors:        counter("errors_total", "Fetches that returned an error."),
		invalidations: counter("invalidations_total", "Cache entries removed by tag invalidation."),
	}
}
