package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Inbound
	UpdatesReceivedTotal    *prometheus.CounterVec
	UpdatesRejectedTotal    *prometheus.CounterVec
	UpdatesTotal            *prometheus.CounterVec
	DispatchDurationSeconds *prometheus.HistogramVec

	// Paging
	PageTransitionsTotal  *prometheus.CounterVec
	MalformedPayloadTotal prometheus.Counter

	// Outbound
	OutboundTotal *prometheus.CounterVec

	// Journal
	JournalWritesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		UpdatesReceivedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerbot_updates_received_total",
				Help: "Total number of updates that entered the middleware chain by update kind",
			},
			[]string{"update_kind"},
		),

		UpdatesRejectedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerbot_updates_rejected_total",
				Help: "Total number of updates dropped before dispatch by reason",
			},
			[]string{"reason"}, // reason: rate_limit, access
		),

		UpdatesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerbot_updates_total",
				Help: "Total number of dispatched updates by event kind, handler and outcome",
			},
			[]string{"event_kind", "handler", "outcome"}, // outcome: ok, no_match
		),

		DispatchDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagerbot_dispatch_duration_seconds",
				Help:    "Time spent inside the handler chain by event kind",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"event_kind"},
		),

		PageTransitionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerbot_page_transitions_total",
				Help: "Total number of callback actions by action kind and result",
			},
			[]string{"action", "result"}, // result: moved, refreshed, ignored
		),

		MalformedPayloadTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "pagerbot_malformed_payloads_total",
				Help: "Total number of callback payloads that failed to parse cleanly",
			},
		),

		OutboundTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerbot_outbound_total",
				Help: "Total number of outbound Bot API calls by kind and status",
			},
			[]string{"kind", "status"}, // status: ok, fail, not_modified
		),

		JournalWritesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerbot_journal_writes_total",
				Help: "Total number of dispatch journal inserts by status",
			},
			[]string{"status"},
		),
	}
}

// RecordReceived counts an update as it arrives.
func (m *Metrics) RecordReceived(updateKind string) {
	if m == nil {
		return
	}
	m.UpdatesReceivedTotal.WithLabelValues(updateKind).Inc()
}

// RecordRejected counts an update dropped by middleware.
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.UpdatesRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordDispatch records one pass through the handler chain.
func (m *Metrics) RecordDispatch(eventKind, handler, outcome string, seconds float64) {
	if m == nil {
		return
	}
	if handler == "" {
		handler = "none"
	}
	m.UpdatesTotal.WithLabelValues(eventKind, handler, outcome).Inc()
	m.DispatchDurationSeconds.WithLabelValues(eventKind).Observe(seconds)
}

// RecordTransition records the result of applying a callback action.
func (m *Metrics) RecordTransition(action, result string) {
	if m == nil {
		return
	}
	m.PageTransitionsTotal.WithLabelValues(action, result).Inc()
}

// RecordMalformed counts a payload that decoded with a fallback.
func (m *Metrics) RecordMalformed() {
	if m == nil {
		return
	}
	m.MalformedPayloadTotal.Inc()
}

// RecordOutbound records one delivered, failed or no-op Bot API call.
func (m *Metrics) RecordOutbound(kind, status string) {
	if m == nil {
		return
	}
	m.OutboundTotal.WithLabelValues(kind, status).Inc()
}

// RecordJournalWrite records a journal insert.
func (m *Metrics) RecordJournalWrite(status string) {
	if m == nil {
		return
	}
	m.JournalWritesTotal.WithLabelValues(status).Inc()
}
