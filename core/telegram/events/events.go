// Package events defines the transport-neutral values exchanged between the Telegram
// adapter and handlers: what came in and what should go out.
package events

import "github.com/m3rciful/pagerbot/core/telegram/keyboard"

// InboundKind tells text messages and button presses apart.
type InboundKind int

const (
	InboundUnknown InboundKind = iota
	InboundText
	InboundCallback
)

func (k InboundKind) String() string {
	switch k {
	case InboundText:
		return "text"
	case InboundCallback:
		return "callback"
	}
	return "unknown"
}

// Inbound is a single user event. Text is set for text messages, Payload and MessageID for
// callbacks. The remaining ids only feed logging and acknowledgments.
type Inbound struct {
	Kind      InboundKind
	ChatID    int64
	MessageID int
	Text      string
	Payload   string

	UpdateID   int
	UserID     int64
	CallbackID string
}

// TextMessage builds a text event.
func TextMessage(chatID int64, text string) Inbound {
	return Inbound{Kind: InboundText, ChatID: chatID, Text: text}
}

// CallbackClick builds a button press on messageID in chatID.
func CallbackClick(chatID int64, messageID int, payload string) Inbound {
	return Inbound{Kind: InboundCallback, ChatID: chatID, MessageID: messageID, Payload: payload}
}

// IsText reports whether e is a text message.
func (e Inbound) IsText() bool { return e.Kind == InboundText }

// IsCallback reports whether e is a button press.
func (e Inbound) IsCallback() bool { return e.Kind == InboundCallback }

// OutboundKind enumerates what a handler may ask the transport to do.
type OutboundKind int

const (
	OutboundSend OutboundKind = iota + 1
	OutboundEditText
	OutboundEditMarkup
	OutboundAnswer
)

func (k OutboundKind) String() string {
	switch k {
	case OutboundSend:
		return "send"
	case OutboundEditText:
		return "edit_text"
	case OutboundEditMarkup:
		return "edit_markup"
	case OutboundAnswer:
		return "answer"
	}
	return "unknown"
}

// Outbound is an instruction for the transport. Inline is nil when the message carries no
// inline keyboard; Reply attaches a reply keyboard and only applies to Send.
type Outbound struct {
	Kind       OutboundKind
	ChatID     int64
	MessageID  int
	Text       string
	Inline     *keyboard.Layout
	Reply      *keyboard.ReplyLayout
	CallbackID string
}

// Send posts a new message, optionally with an inline keyboard.
func Send(chatID int64, text string, layout *keyboard.Layout) Outbound {
	return Outbound{Kind: OutboundSend, ChatID: chatID, Text: text, Inline: layout}
}

// SendWithReply posts a new message that installs a reply keyboard.
func SendWithReply(chatID int64, text string, reply keyboard.ReplyLayout) Outbound {
	return Outbound{Kind: OutboundSend, ChatID: chatID, Text: text, Reply: &reply}
}

// EditText replaces both text and inline keyboard of an existing message.
func EditText(chatID int64, messageID int, text string, layout *keyboard.Layout) Outbound {
	return Outbound{Kind: OutboundEditText, ChatID: chatID, MessageID: messageID, Text: text, Inline: layout}
}

// EditMarkup replaces only the inline keyboard of an existing message.
func EditMarkup(chatID int64, messageID int, layout keyboard.Layout) Outbound {
	return Outbound{Kind: OutboundEditMarkup, ChatID: chatID, MessageID: messageID, Inline: &layout}
}

// Answer acknowledges a callback query, showing text as a toast when non-empty.
func Answer(callbackID, text string) Outbound {
	return Outbound{Kind: OutboundAnswer, CallbackID: callbackID, Text: text}
}

// HasKeyboard reports whether o carries any keyboard.
func (o Outbound) HasKeyboard() bool {
	return o.Inline != nil || o.Reply != nil
}
