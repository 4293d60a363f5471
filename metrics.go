package clarity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clarity",
		Name:      "requests_total",
		Help:      "API requests by HTTP method and response code.",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clarity",
		Name:      "request_duration_seconds",
		Help:      "API request latency by HTTP method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
