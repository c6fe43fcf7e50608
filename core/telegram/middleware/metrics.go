package middleware

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pagerbot/core/metrics"
)

// Rejection reasons reported to metrics.
const (
	RejectRateLimit = "rate_limit"
	RejectAccess    = "access"
)

// MetricsMiddleware counts every update by kind before the rest of the chain runs.
func MetricsMiddleware(m *metrics.Metrics) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			m.RecordReceived(UpdateKind(c.Update()))
			return next(c)
		}
	}
}

// CountRejected returns an OnLimited/OnReject hook that records reason and then calls next.
// next may be nil.
func CountRejected(m *metrics.Metrics, reason string, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		m.RecordRejected(reason)
		if next != nil {
			return next(c)
		}
		return nil
	}
}
