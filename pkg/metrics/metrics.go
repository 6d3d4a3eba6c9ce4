package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// SearchTermsTotal counts extraction calls per search term outcome.
	SearchTermsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_search_terms_total",
			Help: "Total number of search terms fetched.",
		},
		[]string{"category", "status"}, // category: known category or "other"; status: success, failure
	)

	ExtractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_extract_duration_seconds",
			Help:    "Duration of listing extraction calls.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"extractor"},
	)

	ListingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_listings_total",
			Help: "Listings seen by the parser, by outcome.",
		},
		[]string{"category", "outcome"}, // outcome: parsed, rejected
	)

	CatalogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_catalog_entries_total",
			Help: "Catalog lookups by result.",
		},
		[]string{"category", "result"}, // result: created, existing, error
	)

	PriceObservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_price_observations_total",
			Help: "Price observation inserts by status.",
		},
		[]string{"category", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Wall-clock duration of ingestion runs.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"category", "outcome"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_notifications_total",
			Help: "Completion notifications by channel and status.",
		},
		[]string{"channel", "status"},
	)
)
