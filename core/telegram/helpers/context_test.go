package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/telegram/events"
)

func newContext(t *testing.T) tele.Context {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	user := &tele.User{ID: 7}
	return bot.NewContext(tele.Update{ID: 3, Message: &tele.Message{
		ID:     1,
		Sender: user,
		Chat:   &tele.Chat{ID: 42},
		Text:   "hi",
	}})
}

func TestBuildContextIsCached(t *testing.T) {
	t.Parallel()
	c := newContext(t)
	ctx := BuildContext(c)
	assert.Equal(t, "3:42:7", logger.RIDFrom(ctx))
	assert.Equal(t, int64(42), logger.ChatIDFrom(ctx))
	assert.Equal(t, int64(7), logger.UserIDFrom(ctx))

	again := BuildContext(c)
	assert.Equal(t, ctx, again)
}

func TestEventContextReusesRID(t *testing.T) {
	t.Parallel()
	c := newContext(t)
	SetRID(c, "custom")
	ev := events.TextMessage(42, "hi")
	ev.UpdateID = 3
	ctx := EventContext(c, ev)
	assert.Equal(t, "custom", logger.RIDFrom(ctx))

	ctx = WithHandler(c, "text_command")
	assert.Equal(t, "text_command", logger.HandlerFrom(ctx))
	assert.Equal(t, "custom", logger.RIDFrom(ctx))
}

func TestNilContextIsSafe(t *testing.T) {
	t.Parallel()
	StoreContext(nil, nil)
	SetRID(nil, "x")
	_, ok := ContextFrom(nil)
	assert.False(t, ok)
	ctx := EventContext(nil, events.TextMessage(1, "x"))
	assert.Equal(t, "0:1:0", logger.RIDFrom(ctx))
}
