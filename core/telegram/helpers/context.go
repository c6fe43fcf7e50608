// Package helpers bridges telebot contexts and the context.Context used by logging.
package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/telegram/events"
)

const (
	contextKey = "pager.ctx"
	ridKey     = "rid"
)

// StoreContext attaches ctx to c for downstream middleware and routes.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// ContextFrom returns the context previously stored on c.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	if ctx, ok := c.Get(contextKey).(context.Context); ok {
		return ctx, true
	}
	return nil, false
}

// SetRID records the request id computed for the current update.
func SetRID(c tele.Context, rid string) {
	if c != nil && rid != "" {
		c.Set(ridKey, rid)
	}
}

// BuildContext returns the cached logging context of c, or derives one from the update.
func BuildContext(c tele.Context) context.Context {
	if cached, ok := ContextFrom(c); ok {
		return cached
	}

	upd := c.Update()
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	rid, _ := c.Get(ridKey).(string)
	ctx := NewContext(upd.ID, chatID, userID, rid)
	StoreContext(c, ctx)
	return ctx
}

// EventContext builds the logging context for an inbound event, reusing any rid
// already stored on c by the logging middleware.
func EventContext(c tele.Context, ev events.Inbound) context.Context {
	var rid string
	if c != nil {
		rid, _ = c.Get(ridKey).(string)
	}
	ctx := NewContext(ev.UpdateID, ev.ChatID, ev.UserID, rid)
	StoreContext(c, ctx)
	return ctx
}

// NewContext assembles rid and update metadata. An empty rid is derived from the ids.
func NewContext(updateID int, chatID, userID int64, rid string) context.Context {
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
	}
	ctx := logger.WithRID(logger.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	return logger.WithLogger(ctx, logger.Component(logger.CompTG))
}

// WithHandler enriches the stored context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
