// SPDX-License-Identifier: MIT

// Package metrics defines Prometheus business metrics for the catalog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "patlas_catalog_entries",
		Help: "Number of catalog entries currently indexed, by kind and category",
	}, []string{"kind", "category"})

	reindexTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "patlas_reindex_total",
		Help: "Total reindex runs by trigger and outcome",
	}, []string{"trigger", "outcome"})

	reindexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "patlas_reindex_duration_seconds",
		Help:    "Reindex run latencies in seconds",
		Buckets: prometheus.DefBuckets,
	})

	searchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "patlas_search_queries_total",
		Help: "Total search queries by cache result",
	}, []string{"cache"})
)

// RecordCatalogCounts publishes per-category entry gauges.
func RecordCatalogCounts(byCategory map[string]int, principles int) {
	for category, n := range byCategory {
		catalogEntries.WithLabelValues("pattern", category).Set(float64(n))
	}
	catalogEntries.WithLabelValues("principle", "").Set(float64(principles))
}

// RecordReindex counts one reindex run and observes its duration.
func RecordReindex(trigger string, err error, seconds float64) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	reindexTotal.WithLabelValues(trigger, outcome).Inc()
	reindexDuration.Observe(seconds)
}

// RecordSearch counts one search query; cache is "hit" or "miss".
func RecordSearch(cache string) {
	searchQueries.WithLabelValues(cache).Inc()
}
