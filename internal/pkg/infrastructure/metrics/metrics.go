package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolog_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geolog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthenticationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolog_device_authentications_total",
			Help: "Device authentication attempts by result.",
		},
		[]string{"result"},
	)

	PointsInsertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geolog_points_inserted_total",
			Help: "Total number of points stored.",
		},
	)

	PointsReturnedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geolog_points_returned_total",
			Help: "Total number of points returned by point and track queries.",
		},
	)
)

var registerOnce sync.Once

//MustRegister registers all collectors with the default registry. Safe to call more than once.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			AuthenticationsTotal,
			PointsInsertedTotal,
			PointsReturnedTotal,
		)
	})
}
