package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route prefix and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitelog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitelog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// MutationsTotal counts store mutations by collection, operation and outcome.
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitelog_mutations_total",
			Help: "Total number of record mutations",
		},
		[]string{"collection", "operation", "status"},
	)
	PersistDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sitelog_persist_duration_seconds",
			Help:    "Time taken to write a document to the database",
			Buckets: prometheus.DefBuckets,
		},
	)
	AttachmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitelog_attachments_total",
			Help: "Attachment files read, by outcome",
		},
		[]string{"status"},
	)
	GeocodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitelog_geocode_lookups_total",
			Help: "Geocoding lookups, by outcome",
		},
		[]string{"status"},
	)
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitelog_reports_total",
			Help: "Reports generated, by kind",
		},
		[]string{"kind"},
	)
)

// Status maps an error to the "status" label value.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// PathLabel reduces a request path to its first two segments so label
// cardinality does not grow with record ids.
func PathLabel(p string) string {
	p = strings.Trim(p, "/")
	parts := strings.SplitN(p, "/", 3)
	if len(parts) >= 2 {
		return parts[0] + "_" + parts[1]
	}
	if len(parts) == 1 && parts[0] != "" {
		return parts[0]
	}
	return "root"
}
