package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/pagerbot/core/config"
	"github.com/m3rciful/pagerbot/core/metrics"
	"github.com/m3rciful/pagerbot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain for bots:
// request ids and receipt logging first, then panic recovery, update counting,
// the user allowlist and the rate limit. m may be nil.
func DefaultMiddlewares(cfg *coreconfig.Config, m *metrics.Metrics) []Middleware {
	mws := []Middleware{
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "metrics", Use: middleware.MetricsMiddleware(m)},
	}

	if cfg == nil {
		return mws
	}
	if len(cfg.Telegram.AllowedUsers) > 0 {
		mws = append(mws, Middleware{
			Name: "access",
			Use: middleware.AccessMiddleware(middleware.AccessOptions{
				Allowed:  cfg.Telegram.AllowedUsers,
				OnReject: middleware.CountRejected(m, middleware.RejectAccess, nil),
			}),
		})
	}

	interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
	if interval <= 0 {
		return mws
	}
	ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, t := range cfg.RateLimit.ExcludeUpdates {
		ex[strings.ToLower(t)] = struct{}{}
	}
	return append(mws, Middleware{
		Name: "rate_limit",
		Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  interval,
			Exclude:   ex,
			OnLimited: middleware.CountRejected(m, middleware.RejectRateLimit, nil),
		}),
	})
}

// middlewareNames lists chain entries in order, for the wiring log.
func middlewareNames(mws []Middleware) []string {
	names := make([]string, 0, len(mws))
	for _, mw := range mws {
		names = append(names, mw.Name)
	}
	return names
}
