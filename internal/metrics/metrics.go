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

	// TradesTotal counts ownership changes by action (trade, claim, gift).
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_trades_total",
			Help: "Total number of card ownership changes by action",
		},
		[]string{"action"},
	)

	// CardsSeededTotal counts cards inserted by the catalog seeding job.
	CardsSeededTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cards_seeded_total",
			Help: "Total number of cards inserted by the seeding job",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, TradesTotal, CardsSeededTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
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

// IncTrades increments the ownership-change counter for the given action.
func IncTrades(action string) {
	TradesTotal.WithLabelValues(action).Inc()
}

// IncCardsSeeded adds n to the seeded-cards counter.
func IncCardsSeeded(n int) {
	CardsSeededTotal.Add(float64(n))
}
