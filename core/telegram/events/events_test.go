package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/pagerbot/core/telegram/keyboard"
)

func TestInboundConstructors(t *testing.T) {
	t.Parallel()
	text := TextMessage(7, "hi")
	assert.True(t, text.IsText())
	assert.False(t, text.IsCallback())
	assert.Equal(t, "text", text.Kind.String())

	cb := CallbackClick(7, 42, "page:2")
	assert.True(t, cb.IsCallback())
	assert.Equal(t, 42, cb.MessageID)
	assert.Equal(t, "page:2", cb.Payload)

	assert.Equal(t, "unknown", Inbound{}.Kind.String())
}

func TestOutboundConstructors(t *testing.T) {
	t.Parallel()
	layout := keyboard.Build(1, 3)

	send := Send(1, "hello", nil)
	assert.Equal(t, OutboundSend, send.Kind)
	assert.False(t, send.HasKeyboard())

	edit := EditText(1, 5, "Page 2 of 3", &layout)
	assert.Equal(t, "edit_text", edit.Kind.String())
	assert.True(t, edit.HasKeyboard())

	markup := EditMarkup(1, 5, layout)
	require.NotNil(t, markup.Inline)
	assert.Empty(t, markup.Text)

	reply := SendWithReply(1, "welcome", keyboard.ReplyLayout{Rows: [][]string{{"Home"}}})
	assert.Nil(t, reply.Inline)
	require.NotNil(t, reply.Reply)

	ans := Answer("cb-1", "")
	assert.Equal(t, "answer", ans.Kind.String())
	assert.Equal(t, "cb-1", ans.CallbackID)
}
