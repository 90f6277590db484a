package pricing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_pricing_requests_total",
		Help: "Outbound pricing lookups by outcome.",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_pricing_request_duration_seconds",
		Help:    "Latency of a single outbound pricing lookup.",
		Buckets: prometheus.DefBuckets,
	})
)

func observe(err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(outcome).Inc()
	requestDuration.Observe(took.Seconds())
}
