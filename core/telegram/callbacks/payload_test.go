package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		raw       string
		want      Action
		malformed bool
	}{
		{name: "next with page", raw: "action:next:1", want: Nav(KindNext, 1)},
		{name: "prev with page", raw: "action:prev:3", want: Nav(KindPrev, 3)},
		{name: "first", raw: "action:first:3", want: Nav(KindFirst, 3)},
		{name: "last", raw: "action:last:1", want: Nav(KindLast, 1)},
		{name: "config", raw: "action:config:2", want: Nav(KindConfig, 2)},
		{name: "nav without page", raw: "action:next", want: Nav(KindNext, 1), malformed: true},
		{name: "nav with junk page", raw: "action:prev:two", want: Nav(KindPrev, 1), malformed: true},
		{name: "unknown nav name", raw: "action:sideways:2", want: Unknown()},
		{name: "bare action", raw: "action", want: Unknown()},
		{name: "page jump", raw: "page:2", want: Jump(2)},
		{name: "page jump out of range", raw: "page:9", want: Jump(9)},
		{name: "page jump junk", raw: "page:x", want: Jump(1), malformed: true},
		{name: "button", raw: "button:3-5", want: Click(3, 5)},
		{name: "button negative page", raw: "button:-1-4", want: Click(-1, 4)},
		{name: "button junk page", raw: "button:a-4", want: Click(1, 4), malformed: true},
		{name: "button junk index", raw: "button:2-z", want: Click(2, 0), malformed: true},
		{name: "button without separator", raw: "button:2", want: Click(1, 0), malformed: true},
		{name: "surrounding spaces", raw: "  page:3 ", want: Jump(3)},
		{name: "empty", raw: "", want: Unknown()},
		{name: "foreign prefix", raw: "menu:open", want: Unknown()},
		{name: "telebot unique form", raw: "\fmenu|open", want: Unknown()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode(tt.raw)
			assert.Equal(t, tt.want, got)
			if tt.malformed {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedPayload)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "action:next:1", Encode(Nav(KindNext, 1)))
	assert.Equal(t, "action:config:2", Encode(Nav(KindConfig, 2)))
	assert.Equal(t, "page:3", Encode(Jump(3)))
	assert.Equal(t, "button:2-1", Encode(Click(2, 1)))
	assert.Empty(t, Encode(Unknown()))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	var actions []Action
	for page := -2; page <= 12; page++ {
		for _, kind := range []Kind{KindNext, KindPrev, KindFirst, KindLast, KindConfig} {
			actions = append(actions, Nav(kind, page))
		}
		actions = append(actions, Jump(page))
		for index := -1; index <= 7; index++ {
			actions = append(actions, Click(page, index))
		}
	}
	actions = append(actions, Unknown())

	for _, a := range actions {
		raw := Encode(a)
		got, err := Decode(raw)
		require.NoError(t, err, "payload %q", raw)
		assert.Equal(t, a, got, "payload %q", raw)
		assert.Equal(t, a.Kind(), got.Kind())
		assert.Equal(t, a.Page(), got.Page())
	}
}

func TestNavRejectsNonNavKinds(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Unknown(), Nav(KindPageJump, 2))
	assert.Equal(t, Unknown(), Nav(KindButtonClick, 2))
	assert.Equal(t, KindUnknown, Action{}.Kind())
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "next", KindNext.String())
	assert.Equal(t, "button", KindButtonClick.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
