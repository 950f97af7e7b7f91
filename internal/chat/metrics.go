package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesTotal tracks chat messages by routed intent
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlete_guard_chat_messages_total",
			Help: "Total number of chat messages by intent",
		},
		[]string{"intent"},
	)

	// UpstreamRequestsTotal tracks text generation calls
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlete_guard_chat_upstream_requests_total",
			Help: "Total number of text generation API calls",
		},
		[]string{"outcome"}, // success, http_error, bad_payload, transport_error
	)

	// UpstreamLatency tracks text generation call latency
	UpstreamLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "athlete_guard_chat_upstream_latency_seconds",
			Help:    "Text generation API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
