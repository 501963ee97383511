package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goatcall_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Connection metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "goatcall_ws_connections_active",
			Help: "Currently open websocket connections",
		},
	)

	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "goatcall_rooms_active",
			Help: "Rooms currently held in memory",
		},
	)

	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_events_received_total",
			Help: "Inbound events by type",
		},
		[]string{"type"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_events_dropped_total",
			Help: "Inbound frames dropped before dispatch",
		},
		[]string{"reason"}, // "rate_limited", "bad_json", "unknown_type", "bad_payload"
	)

	// Business metrics
	MessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_messages_posted_total",
			Help: "Messages appended to room history",
		},
		[]string{"kind"}, // "user" or "system"
	)

	CallRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_call_requests_total",
			Help: "Call requests by result",
		},
		[]string{"result"}, // "ringing", "busy", "invalid_room", "invalid_call_data", "offline", "already_in_call", "in_progress"
	)

	CallTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_call_transitions_total",
			Help: "Call session transitions",
		},
		[]string{"transition"}, // "accepted", "declined", "ended", "left", "disconnected", "ring_timeout", "healed"
	)

	SignalsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_signals_relayed_total",
			Help: "Negotiation payloads by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goatcall_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	// Delivery metrics
	SendDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goatcall_send_dropped_total",
			Help: "Outbound frames dropped because a connection queue was full or closed",
		},
	)
)
