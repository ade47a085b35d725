// Package hmetrics exposes per-cache hit/miss/load/eviction counters as
// Prometheus metrics, implemented directly against client_golang by
// polling each Cache's own Stats() snapshot on every scrape.
package hmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/hoard/pkg/cache"
)

// Collector implements prometheus.Collector by reading a set of named
// Caches' Stats() on every scrape, avoiding the need to update
// Prometheus metrics inline on every cache operation.
type Collector struct {
	caches map[string]*cache.Cache

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	loads     *prometheus.Desc
	evictions *prometheus.Desc
	length    *prometheus.Desc
}

// NewCollector returns a Collector scraping the given named caches.
func NewCollector(caches map[string]*cache.Cache) *Collector {
	return &Collector{
		caches: caches,
		hits: prometheus.NewDesc("hoard_cache_hits_total",
			"Number of Get calls served from the in-memory cache.", []string{"cache"}, nil),
		misses: prometheus.NewDesc("hoard_cache_misses_total",
			"Number of Get calls that found nothing in the in-memory cache.", []string{"cache"}, nil),
		loads: prometheus.NewDesc("hoard_cache_loads_total",
			"Number of entries promoted from the archive into the in-memory cache.", []string{"cache"}, nil),
		evictions: prometheus.NewDesc("hoard_cache_evictions_total",
			"Number of entries evicted from the in-memory cache.", []string{"cache"}, nil),
		length: prometheus.NewDesc("hoard_cache_entries",
			"Current number of entries held in the in-memory cache.", []string{"cache"}, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.loads
	ch <- c.evictions
	ch <- c.length
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, ca := range c.caches {
		s := ca.Stats()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.loads, prometheus.CounterValue, float64(s.Loads), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), name)
		ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(ca.Len()), name)
	}
}

// Register adds a Collector scraping caches to reg (prometheus.
// DefaultRegisterer if reg is nil).
func Register(reg prometheus.Registerer, caches map[string]*cache.Cache) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return reg.Register(NewCollector(caches))
}
