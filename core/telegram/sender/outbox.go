package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/metrics"
	"github.com/m3rciful/pagerbot/core/telegram/events"
	"github.com/m3rciful/pagerbot/core/telegram/keyboard"
	"github.com/m3rciful/pagerbot/core/telegram/netutil"
)

// API is the slice of the Bot API the outbox needs. *tele.Bot satisfies it.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// Outbox turns handler actions into Bot API calls, through the queue when one is set.
type Outbox struct {
	api     API
	queue   *Queue
	metrics *metrics.Metrics
}

// NewOutbox binds api to q. A nil q performs every call inline.
func NewOutbox(api API, q *Queue, m *metrics.Metrics) *Outbox {
	return &Outbox{api: api, queue: q, metrics: m}
}

// Deliver performs acts in order as one job. A retry resumes at the action that failed,
// so earlier messages are never sent twice. An action that fails for good is logged and
// skipped; only retryable errors stop the batch.
func (o *Outbox) Deliver(ctx context.Context, acts []events.Outbound) error {
	if o == nil || len(acts) == 0 {
		return nil
	}
	next := 0
	run := func() error {
		for next < len(acts) {
			if err := o.perform(ctx, acts[next]); err != nil {
				if netutil.ShouldRetry(err) {
					return err
				}
				logActionFailure(ctx, acts[next], err)
			}
			next++
		}
		return nil
	}

	if o.queue == nil {
		return run()
	}

	action := batchLabel(acts)
	endpoint := Endpoint(acts[0].Kind)
	if err := o.queue.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
			logger.Warn(ctx, logger.CompSender, "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

func (o *Outbox) perform(ctx context.Context, act events.Outbound) error {
	err := Perform(o.api, act)
	switch {
	case err == nil:
		o.metrics.RecordOutbound(act.Kind.String(), "ok")
		return nil
	case isNotModified(err):
		o.metrics.RecordOutbound(act.Kind.String(), "not_modified")
		logger.Debug(ctx, logger.CompSender, "send.not_modified",
			slog.String("kind", act.Kind.String()),
			slog.Int("message_id", act.MessageID),
		)
		return nil
	default:
		o.metrics.RecordOutbound(act.Kind.String(), "fail")
		return err
	}
}

// Perform executes a single action against api.
func Perform(api API, act events.Outbound) error {
	if api == nil {
		return errors.New("telegram sender: nil api")
	}
	switch act.Kind {
	case events.OutboundSend:
		opts := &tele.SendOptions{}
		switch {
		case act.Inline != nil:
			opts.ReplyMarkup = keyboard.InlineMarkup(*act.Inline)
		case act.Reply != nil:
			opts.ReplyMarkup = keyboard.ReplyMarkup(*act.Reply)
		}
		_, err := api.Send(tele.ChatID(act.ChatID), act.Text, opts)
		return err
	case events.OutboundEditText:
		msg := storedMessage(act)
		if act.Inline != nil {
			_, err := api.Edit(msg, act.Text, keyboard.InlineMarkup(*act.Inline))
			return err
		}
		_, err := api.Edit(msg, act.Text)
		return err
	case events.OutboundEditMarkup:
		markup := &tele.ReplyMarkup{}
		if act.Inline != nil {
			markup = keyboard.InlineMarkup(*act.Inline)
		}
		_, err := api.EditReplyMarkup(storedMessage(act), markup)
		return err
	case events.OutboundAnswer:
		resp := &tele.CallbackResponse{}
		if act.Text != "" {
			resp.Text = act.Text
		}
		return api.Respond(&tele.Callback{ID: act.CallbackID}, resp)
	}
	return fmt.Errorf("telegram sender: unsupported outbound kind %d", act.Kind)
}

// Endpoint names the Bot API method behind kind, for logs.
func Endpoint(kind events.OutboundKind) string {
	switch kind {
	case events.OutboundSend:
		return "sendMessage"
	case events.OutboundEditText:
		return "editMessageText"
	case events.OutboundEditMarkup:
		return "editMessageReplyMarkup"
	case events.OutboundAnswer:
		return "answerCallbackQuery"
	}
	return ""
}

func storedMessage(act events.Outbound) tele.StoredMessage {
	return tele.StoredMessage{MessageID: strconv.Itoa(act.MessageID), ChatID: act.ChatID}
}

func logActionFailure(ctx context.Context, act events.Outbound, err error) {
	attrs := []slog.Attr{
		slog.String("action", act.Kind.String()),
		slog.String("endpoint", Endpoint(act.Kind)),
		slog.String("error", sanitizeErrorMessage(err)),
		slog.String("error_kind", classifyError(err)),
	}
	if rid := logger.RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if act.ChatID != 0 {
		attrs = append(attrs, slog.Int64("chat_id", act.ChatID))
	}
	logger.Warn(ctx, logger.CompSender, "send.fail", attrs...)
}

func batchLabel(acts []events.Outbound) string {
	kinds := make([]string, 0, len(acts))
	for _, a := range acts {
		kinds = append(kinds, a.Kind.String())
	}
	return strings.Join(kinds, "+")
}
