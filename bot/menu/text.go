// Package menu holds the handlers of the paginated inline menu.
package menu

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m3rciful/pagerbot/core/logger"
	coretelegram "github.com/m3rciful/pagerbot/core/telegram"
	"github.com/m3rciful/pagerbot/core/telegram/events"
	"github.com/m3rciful/pagerbot/core/telegram/keyboard"
	"github.com/m3rciful/pagerbot/core/telegram/paging"
)

// Handler names as they appear in logs, metrics and the journal.
const (
	TextHandlerName     = "text_command"
	CallbackHandlerName = "callback_action"
)

// TextOptions configure TextCommandHandler.
type TextOptions struct {
	Pages    int
	Registry *coretelegram.Registry
	// HomeLabel is the reply keyboard label that opens page 1. Empty disables it.
	HomeLabel string
	// ReplyLabels fill the reply keyboard sent by /start, three per row.
	ReplyLabels []string
}

// TextCommandHandler answers text messages: commands, the home label and echo for the rest.
type TextCommandHandler struct {
	pages int
	reg   *coretelegram.Registry
	home  string
	reply keyboard.ReplyLayout
}

// NewTextCommandHandler builds the handler. A nil Registry gets /start and /menu and
// a non-positive Pages falls back to paging.DefaultPages.
func NewTextCommandHandler(opts TextOptions) *TextCommandHandler {
	reg := opts.Registry
	if reg == nil {
		reg = coretelegram.NewRegistry()
		RegisterCommands(reg)
	}
	return &TextCommandHandler{
		pages: pageCount(opts.Pages),
		reg:   reg,
		home:  strings.TrimSpace(opts.HomeLabel),
		reply: keyboard.ChunkLabels(opts.ReplyLabels, 3),
	}
}

func (h *TextCommandHandler) Name() string { return TextHandlerName }

func (h *TextCommandHandler) CanHandle(ev events.Inbound) bool { return ev.IsText() }

func (h *TextCommandHandler) Handle(ctx context.Context, ev events.Inbound) []events.Outbound {
	text := strings.TrimSpace(ev.Text)

	if name, _, ok := h.reg.LookupCommand(text); ok {
		switch name {
		case CommandStart:
			logger.Debug(ctx, logger.CompPager, "command.start")
			return []events.Outbound{
				h.welcome(ev.ChatID),
				h.firstPage(ev.ChatID, Caption(1, h.pages)),
			}
		case CommandMenu:
			logger.Debug(ctx, logger.CompPager, "command.menu")
			return []events.Outbound{h.firstPage(ev.ChatID, Caption(1, h.pages))}
		}
	}

	if h.home != "" && text == h.home {
		logger.Debug(ctx, logger.CompPager, "label.home")
		return []events.Outbound{h.firstPage(ev.ChatID, HomeText(h.pages))}
	}

	logger.Debug(ctx, logger.CompPager, "text.echo",
		slog.Int("len", len(ev.Text)),
	)
	return []events.Outbound{events.Send(ev.ChatID, EchoText(ev.Text), nil)}
}

func (h *TextCommandHandler) welcome(chatID int64) events.Outbound {
	if len(h.reply.Rows) == 0 {
		return events.Send(chatID, WelcomeText, nil)
	}
	return events.SendWithReply(chatID, WelcomeText, h.reply)
}

func (h *TextCommandHandler) firstPage(chatID int64, text string) events.Outbound {
	layout := keyboard.Build(1, h.pages)
	return events.Send(chatID, text, &layout)
}

func pageCount(n int) int {
	if n <= 0 {
		return paging.DefaultPages
	}
	return n
}
