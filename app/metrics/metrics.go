package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pharma_pulse"

var (
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_fetches_total",
		Help:      "Feed fetches by outcome (connected, transport_error, empty_result).",
	}, []string{"outcome"})

	FeedArticles = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_admitted_articles",
		Help:      "Articles admitted per successful fetch.",
		Buckets:   []float64{1, 5, 10, 25, 50, 75, 100},
	})

	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_requests_total",
		Help:      "Proxy requests by cache result and outcome.",
	}, []string{"cache", "outcome"})

	Sessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions",
		Help:      "Live presentation sessions.",
	})

	Tasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_total",
		Help:      "Background tasks by type and result.",
	}, []string{"type", "result"})
)

const (
	OutcomeConnected      = "connected"
	OutcomeTransportError = "transport_error"
	OutcomeEmptyResult    = "empty_result"
)
