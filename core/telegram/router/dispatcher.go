package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/metrics"
	"github.com/m3rciful/pagerbot/core/telegram/events"
)

// Handler claims inbound events and turns them into outbound actions.
// CanHandle must be side-effect free; Handle is called at most once per event.
type Handler interface {
	Name() string
	CanHandle(ev events.Inbound) bool
	Handle(ctx context.Context, ev events.Inbound) []events.Outbound
}

type funcHandler struct {
	name   string
	match  func(events.Inbound) bool
	handle func(context.Context, events.Inbound) []events.Outbound
}

// HandlerFunc adapts a predicate and a closure to Handler.
func HandlerFunc(name string, match func(events.Inbound) bool, handle func(context.Context, events.Inbound) []events.Outbound) Handler {
	return funcHandler{name: name, match: match, handle: handle}
}

func (h funcHandler) Name() string { return h.name }

func (h funcHandler) CanHandle(ev events.Inbound) bool {
	return h.match != nil && h.match(ev)
}

func (h funcHandler) Handle(ctx context.Context, ev events.Inbound) []events.Outbound {
	if h.handle == nil {
		return nil
	}
	return h.handle(ctx, ev)
}

// Result describes what happened to one event.
type Result struct {
	Handler  string
	Matched  bool
	Shadowed []string
	Actions  []events.Outbound
	Duration time.Duration
}

// Dispatcher runs an ordered handler chain. The first handler whose CanHandle
// accepts the event wins; the rest are never invoked.
type Dispatcher struct {
	handlers []Handler
	metrics  *metrics.Metrics
}

// NewDispatcher builds a chain in the given order. Nil handlers are skipped.
func NewDispatcher(handlers ...Handler) *Dispatcher {
	chain := make([]Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			chain = append(chain, h)
		}
	}
	return &Dispatcher{handlers: chain}
}

// WithMetrics attaches m to the dispatcher and returns it.
func (d *Dispatcher) WithMetrics(m *metrics.Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// Handlers returns the handler names in dispatch order.
func (d *Dispatcher) Handlers() []string {
	names := make([]string, 0, len(d.handlers))
	for _, h := range d.handlers {
		names = append(names, h.Name())
	}
	return names
}

// Dispatch routes ev and returns the actions of the winning handler, or nil.
func (d *Dispatcher) Dispatch(ctx context.Context, ev events.Inbound) []events.Outbound {
	return d.Route(ctx, ev).Actions
}

// Route is Dispatch with bookkeeping attached.
func (d *Dispatcher) Route(ctx context.Context, ev events.Inbound) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	var (
		res    Result
		winner Handler
	)
	for _, h := range d.handlers {
		if !h.CanHandle(ev) {
			continue
		}
		if winner == nil {
			winner = h
			continue
		}
		res.Shadowed = append(res.Shadowed, h.Name())
	}

	if winner == nil {
		res.Duration = time.Since(start)
		logger.Debug(ctx, logger.CompTG, "dispatch.unhandled",
			slog.String("kind", ev.Kind.String()),
			slog.Int("handlers", len(d.handlers)),
		)
		d.metrics.RecordDispatch(ev.Kind.String(), "", "no_match", res.Duration.Seconds())
		return res
	}

	res.Handler = winner.Name()
	res.Matched = true
	if len(res.Shadowed) > 0 {
		preview, _ := logger.SummarizeStrings(res.Shadowed, 4)
		logger.Warn(ctx, logger.CompTG, "dispatch.shadowed",
			slog.String("handler", res.Handler),
			slog.String("kind", ev.Kind.String()),
			slog.String("shadowed", preview),
		)
	}

	res.Actions = winner.Handle(logger.WithHandler(ctx, res.Handler), ev)
	res.Duration = time.Since(start)
	d.metrics.RecordDispatch(ev.Kind.String(), res.Handler, "ok", res.Duration.Seconds())
	return res
}
