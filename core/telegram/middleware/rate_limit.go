package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pagerbot/core/logger"
	tghelpers "github.com/m3rciful/pagerbot/core/telegram/helpers"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// Answer clears the loading state of a dropped callback; nil means c.Respond().
	Answer func(tele.Context) error
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// rateLimiter remembers when each user was last let through. Entries older than the
// interval are swept at most once per sweepEvery.
type rateLimiter struct {
	mu         sync.Mutex
	interval   time.Duration
	sweepEvery time.Duration
	lastSeen   map[int64]time.Time
	lastSweep  time.Time
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{
		interval:   interval,
		sweepEvery: max(10*interval, time.Minute),
		lastSeen:   make(map[int64]time.Time),
	}
}

func (r *rateLimiter) allow(userID int64, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Sub(r.lastSweep) >= r.sweepEvery {
		for id, ts := range r.lastSeen {
			if now.Sub(ts) >= r.interval {
				delete(r.lastSeen, id)
			}
		}
		r.lastSweep = now
	}
	if last, ok := r.lastSeen[userID]; ok && now.Sub(last) < r.interval {
		return false
	}
	r.lastSeen[userID] = now
	return true
}

func (r *rateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lastSeen)
}

// UpdateKind names the update for exclusion matching: "callback", "message" or "other".
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	}
	return "other"
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between updates from the same user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	limiter := newRateLimiter(opts.Interval)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			kind := UpdateKind(c.Update())
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			if limiter.allow(user.ID, now()) {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), logger.CompTG, "tg.rate_limit",
				slog.String("status", "skip"),
				slog.String("outcome", "rate_limited"),
				slog.String("kind", kind),
			)
			answerDropped(c, opts.Answer)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}

// answerDropped stops the client spinner for a callback the chain will not handle.
func answerDropped(c tele.Context, answer func(tele.Context) error) {
	if c.Callback() == nil {
		return
	}
	if answer == nil {
		answer = func(c tele.Context) error { return c.Respond() }
	}
	if err := answer(c); err != nil {
		logger.Debug(tghelpers.BuildContext(c), logger.CompTG, "tg.answer_dropped",
			slog.String("err", err.Error()),
		)
	}
}
