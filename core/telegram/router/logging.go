package router

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/telegram/events"
)

// logDispatchSummary writes the single INFO line that closes every routed update.
func logDispatchSummary(ctx context.Context, ev events.Inbound, res Result, acts []events.Outbound, start time.Time, err error) {
	status, outcome := "ok", "ok"
	switch {
	case err != nil:
		status, outcome = "fail", "fail"
	case !res.Matched:
		status, outcome = "skip", "no_match"
	case countMessages(acts) == 0:
		outcome = "ignored"
	}

	handler := res.Handler
	if handler == "" {
		handler = "none"
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", normalizeHandlerName(handler)),
		slog.String("kind", ev.Kind.String()),
		slog.String("outcome", outcome),
		slog.Int("messages", countMessages(acts)),
		slog.Bool("kb", hasKeyboard(acts)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component(logger.CompTG), slog.LevelInfo, "handler.handled", attrs...)
}

// countMessages counts actions visible in the chat; callback answers are not messages.
func countMessages(acts []events.Outbound) int {
	n := 0
	for _, a := range acts {
		if a.Kind != events.OutboundAnswer {
			n++
		}
	}
	return n
}

func hasKeyboard(acts []events.Outbound) bool {
	for _, a := range acts {
		if a.HasKeyboard() {
			return true
		}
	}
	return false
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	type coder interface{ Code() string }
	if c, ok := err.(coder); ok {
		code := strings.TrimSpace(c.Code())
		if code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
