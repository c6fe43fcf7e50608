package menu

import (
	"context"
	"log/slog"

	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/metrics"
	"github.com/m3rciful/pagerbot/core/telegram/callbacks"
	"github.com/m3rciful/pagerbot/core/telegram/events"
	"github.com/m3rciful/pagerbot/core/telegram/keyboard"
	"github.com/m3rciful/pagerbot/core/telegram/paging"
)

// Transition results recorded in metrics.
const (
	ResultMoved     = "moved"
	ResultRefreshed = "refreshed"
	ResultIgnored   = "ignored"
)

// ConfigHook is called for Config presses with the page they were pressed on.
// Returned actions are delivered as-is.
type ConfigHook func(ctx context.Context, ev events.Inbound, page int) []events.Outbound

// CallbackOptions configure CallbackActionHandler.
type CallbackOptions struct {
	Pages    int
	Metrics  *metrics.Metrics
	OnConfig ConfigHook
}

// CallbackActionHandler turns inline button presses into page edits.
type CallbackActionHandler struct {
	pages    int
	metrics  *metrics.Metrics
	onConfig ConfigHook
}

func NewCallbackActionHandler(opts CallbackOptions) *CallbackActionHandler {
	return &CallbackActionHandler{
		pages:    pageCount(opts.Pages),
		metrics:  opts.Metrics,
		onConfig: opts.OnConfig,
	}
}

func (h *CallbackActionHandler) Name() string { return CallbackHandlerName }

func (h *CallbackActionHandler) CanHandle(ev events.Inbound) bool { return ev.IsCallback() }

func (h *CallbackActionHandler) Handle(ctx context.Context, ev events.Inbound) []events.Outbound {
	action, err := callbacks.Decode(ev.Payload)
	if err != nil {
		h.metrics.RecordMalformed()
		logger.Warn(ctx, logger.CompPager, "payload.malformed",
			slog.String("payload", logger.SanitizeLimit(ev.Payload, 64)),
			slog.String("err", err.Error()),
		)
	}

	current := paging.CurrentPage(action, h.pages)
	target, ok := paging.Transition(current, action, h.pages)
	if !ok {
		h.metrics.RecordTransition(action.Kind().String(), ResultIgnored)
		if action.Kind() == callbacks.KindConfig {
			logger.Debug(ctx, logger.CompPager, "callback.config",
				slog.Int("page", current),
			)
			if h.onConfig == nil {
				return nil
			}
			return h.onConfig(ctx, ev, current)
		}
		logger.Info(ctx, logger.CompPager, "callback.unknown",
			slog.String("payload", logger.SanitizeLimit(ev.Payload, 64)),
		)
		return nil
	}

	layout := keyboard.Build(target, h.pages)
	if target != current {
		h.metrics.RecordTransition(action.Kind().String(), ResultMoved)
		logger.Debug(ctx, logger.CompPager, "page.move",
			slog.String("action", action.Kind().String()),
			slog.Int("from", current),
			slog.Int("to", target),
		)
		return []events.Outbound{events.EditText(ev.ChatID, ev.MessageID, Caption(target, h.pages), &layout)}
	}

	h.metrics.RecordTransition(action.Kind().String(), ResultRefreshed)
	logger.Debug(ctx, logger.CompPager, "page.refresh",
		slog.String("action", action.Kind().String()),
		slog.Int("page", target),
	)
	return []events.Outbound{events.EditMarkup(ev.ChatID, ev.MessageID, layout)}
}

// Outcome describes what a payload does on a menu of n pages without producing actions.
// The journal uses it to record the action kind and resulting page.
func Outcome(payload string, n int) (kind string, target int) {
	action, _ := callbacks.Decode(payload)
	n = pageCount(n)
	target, ok := paging.Transition(paging.CurrentPage(action, n), action, n)
	if !ok {
		target = 0
	}
	return action.Kind().String(), target
}
