// Package metrics defines the Prometheus collectors of the documentation
// viewer and the HTTP plumbing that exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Group list fetch results.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultStatus  = "bad_status"
	ResultDecode  = "decode_error"
	ResultTimeout = "canceled"
)

var (
	GroupFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docviewer_group_fetches_total",
			Help: "Total number of API group list fetches by result",
		},
		[]string{"result"},
	)

	GroupFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docviewer_group_fetch_duration_seconds",
			Help:    "API group list fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SelectionChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docviewer_selection_changes_total",
			Help: "Total number of API group selection changes made in live sessions",
		},
	)

	LiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docviewer_live_sessions",
			Help: "Number of currently connected live viewer sessions",
		},
	)

	CatalogGroups = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docviewer_catalog_groups",
			Help: "Number of API groups imported into the catalog",
		},
	)
)
