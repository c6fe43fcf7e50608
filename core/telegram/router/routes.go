package router

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/pagerbot/core/telegram"
	"github.com/m3rciful/pagerbot/core/telegram/events"
	tghelpers "github.com/m3rciful/pagerbot/core/telegram/helpers"
)

// Deliverer performs outbound actions. *sender.Outbox satisfies it.
type Deliverer interface {
	Deliver(ctx context.Context, acts []events.Outbound) error
}

// RouteOptions wires the dispatcher into telebot.
type RouteOptions struct {
	Dispatcher *Dispatcher
	Outbox     Deliverer
	// OnDispatched observes every routed event after its actions were handed to Outbox.
	OnDispatched func(ctx context.Context, ev events.Inbound, res Result)
}

// Routes binds text messages and callback queries to the dispatcher.
// Commands arrive through OnText because no per-command endpoints are registered.
func Routes(opts RouteOptions) []tg.Route {
	if opts.Dispatcher == nil {
		return nil
	}
	h := updateHandler(opts)
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: h},
		{Endpoint: tele.OnCallback, Handler: h},
	}
}

func updateHandler(opts RouteOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		ev, ok := InboundFromUpdate(c.Update())
		if !ok {
			return nil
		}

		ctx := tghelpers.EventContext(c, ev)
		res := opts.Dispatcher.Route(ctx, ev)
		ctx = tghelpers.WithHandler(c, res.Handler)

		acts := res.Actions
		if ev.IsCallback() && !hasAnswer(acts) {
			// Stop the client-side spinner before any edit lands.
			acts = append([]events.Outbound{events.Answer(ev.CallbackID, "")}, acts...)
		}

		var err error
		if opts.Outbox != nil {
			err = opts.Outbox.Deliver(ctx, acts)
		}
		logDispatchSummary(ctx, ev, res, acts, start, err)

		if opts.OnDispatched != nil {
			opts.OnDispatched(ctx, ev, res)
		}
		return nil
	}
}

// InboundFromUpdate converts a telebot update into an event.
// ok is false for updates the bot does not react to.
func InboundFromUpdate(u tele.Update) (events.Inbound, bool) {
	switch {
	case u.Callback != nil:
		cb := u.Callback
		if cb.Message == nil || cb.Message.Chat == nil {
			return events.Inbound{}, false
		}
		payload := cb.Data
		if cb.Unique != "" {
			payload = cb.Unique + "|" + cb.Data
		}
		ev := events.CallbackClick(cb.Message.Chat.ID, cb.Message.ID, payload)
		ev.UpdateID = u.ID
		ev.CallbackID = cb.ID
		if cb.Sender != nil {
			ev.UserID = cb.Sender.ID
		}
		return ev, true
	case u.Message != nil:
		m := u.Message
		if m.Chat == nil || m.Text == "" {
			return events.Inbound{}, false
		}
		ev := events.TextMessage(m.Chat.ID, m.Text)
		ev.UpdateID = u.ID
		ev.MessageID = m.ID
		if m.Sender != nil {
			ev.UserID = m.Sender.ID
		}
		return ev, true
	}
	return events.Inbound{}, false
}

func hasAnswer(acts []events.Outbound) bool {
	for _, a := range acts {
		if a.Kind == events.OutboundAnswer {
			return true
		}
	}
	return false
}
