package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pagerbot/core/logger"
	tghelpers "github.com/m3rciful/pagerbot/core/telegram/helpers"
)

// AccessOptions restrict the bot to a set of users.
type AccessOptions struct {
	// Allowed user ids. Empty allows everyone.
	Allowed  []int64
	OnReject tele.HandlerFunc
	// Answer clears the loading state of a rejected callback; nil means c.Respond().
	Answer func(tele.Context) error
}

// AccessMiddleware drops updates from users outside opts.Allowed.
// Updates without a sender pass through.
func AccessMiddleware(opts AccessOptions) tele.MiddlewareFunc {
	allowed := make(map[int64]struct{}, len(opts.Allowed))
	for _, id := range opts.Allowed {
		allowed[id] = struct{}{}
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		if len(allowed) == 0 {
			return next
		}
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			if _, ok := allowed[user.ID]; ok {
				return next(c)
			}
			logger.Info(tghelpers.BuildContext(c), logger.CompTG, "tg.access",
				slog.String("status", "skip"),
				slog.String("outcome", "denied"),
				slog.String("kind", UpdateKind(c.Update())),
			)
			answerDropped(c, opts.Answer)
			if opts.OnReject != nil {
				_ = opts.OnReject(c)
			}
			return nil
		}
	}
}
