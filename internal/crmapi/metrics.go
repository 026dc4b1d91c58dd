package crmapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crmapi_requests_total",
			Help: "Total number of CRM API requests",
		},
		[]string{"method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crmapi_request_duration_seconds",
			Help:    "CRM API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// observe records one upstream call. status 0 means no response was received.
func observe(method string, status int, d time.Duration) {
	requestsTotal.WithLabelValues(method, statusClass(status)).Inc()
	requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// statusClass maps a response status to 2xx, 4xx, ... and 0 to "error".
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
