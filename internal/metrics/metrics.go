package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuditEntriesTotal counts committed audit entries by action.
	AuditEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_entries_total",
			Help: "Total number of audit log entries committed",
		},
		[]string{"action"},
	)

	// AuditEntriesPruned counts entries removed by clear operations, by trigger (manual, retention).
	AuditEntriesPruned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_entries_pruned_total",
			Help: "Total number of audit log entries deleted",
		},
		[]string{"trigger"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuditEntriesTotal, AuditEntriesPruned)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/employees/123/teams -> /api/employees/{id}/teams.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAuditEntries is called once per audit entry after its transaction commits.
func IncAuditEntries(action string) {
	AuditEntriesTotal.WithLabelValues(action).Inc()
}

// AddAuditPruned adds n deleted entries under trigger.
func AddAuditPruned(trigger string, n int) {
	if n > 0 {
		AuditEntriesPruned.WithLabelValues(trigger).Add(float64(n))
	}
}
