// Package metrics exposes pipeline counters on an optional Prometheus
// endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	PagesCrawledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitemd_pages_crawled_total",
			Help: "Pages fetched from the site, by outcome.",
		},
		[]string{"outcome"},
	)
	PagesConvertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitemd_pages_converted_total",
			Help: "Pages converted to markdown, by outcome.",
		},
		[]string{"outcome"},
	)
	GenerateLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitemd_generate_latency_seconds",
			Help:    "Latency of markdown generation in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"generator"},
	)
)

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil { //nolint:gosec
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
}
