package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/pagerbot/core/telegram/callbacks"
)

func allActions(page int) []callbacks.Action {
	return []callbacks.Action{
		callbacks.Nav(callbacks.KindNext, page),
		callbacks.Nav(callbacks.KindPrev, page),
		callbacks.Nav(callbacks.KindFirst, page),
		callbacks.Nav(callbacks.KindLast, page),
		callbacks.Nav(callbacks.KindConfig, page),
		callbacks.Jump(page),
		callbacks.Jump(page + 7),
		callbacks.Jump(-page),
		callbacks.Click(page, 4),
		callbacks.Unknown(),
	}
}

func TestTransitionStaysInRange(t *testing.T) {
	t.Parallel()
	for _, n := range []int{1, 2, 3, 5} {
		for p := 1; p <= n; p++ {
			for _, a := range allActions(p) {
				got, ok := Transition(p, a, n)
				if !ok {
					continue
				}
				assert.GreaterOrEqual(t, got, 1, "n=%d p=%d kind=%s", n, p, a.Kind())
				assert.LessOrEqual(t, got, n, "n=%d p=%d kind=%s", n, p, a.Kind())
			}
		}
	}
}

func TestTransition(t *testing.T) {
	t.Parallel()
	const n = 3
	tests := []struct {
		name    string
		current int
		action  callbacks.Action
		want    int
		wantOK  bool
	}{
		{"next from first", 1, callbacks.Nav(callbacks.KindNext, 1), 2, true},
		{"next clamps at last", 3, callbacks.Nav(callbacks.KindNext, 3), 3, true},
		{"prev from middle", 2, callbacks.Nav(callbacks.KindPrev, 2), 1, true},
		{"prev clamps at first", 1, callbacks.Nav(callbacks.KindPrev, 1), 1, true},
		{"first", 3, callbacks.Nav(callbacks.KindFirst, 3), 1, true},
		{"last", 1, callbacks.Nav(callbacks.KindLast, 1), 3, true},
		{"jump in range", 1, callbacks.Jump(2), 2, true},
		{"jump clamps high", 1, callbacks.Jump(9), 3, true},
		{"jump clamps low", 2, callbacks.Jump(-4), 1, true},
		{"button keeps its page", 1, callbacks.Click(3, 5), 3, true},
		{"config never transitions", 2, callbacks.Nav(callbacks.KindConfig, 2), 0, false},
		{"unknown never transitions", 2, callbacks.Unknown(), 0, false},
		{"current out of range is clamped", 8, callbacks.Nav(callbacks.KindPrev, 8), 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Transition(tt.current, tt.action, n)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigNeverTransitions(t *testing.T) {
	t.Parallel()
	for p := -1; p <= 5; p++ {
		_, ok := Transition(p, callbacks.Nav(callbacks.KindConfig, p), DefaultPages)
		assert.False(t, ok, "page %d", p)
	}
}

func TestTransitionIsDeterministic(t *testing.T) {
	t.Parallel()
	for p := 1; p <= DefaultPages; p++ {
		for _, a := range allActions(p) {
			first, firstOK := Transition(p, a, DefaultPages)
			second, secondOK := Transition(p, a, DefaultPages)
			assert.Equal(t, first, second)
			assert.Equal(t, firstOK, secondOK)
		}
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, Clamp(0, 3))
	assert.Equal(t, 3, Clamp(9, 3))
	assert.Equal(t, 2, Clamp(2, 3))
	assert.Equal(t, 1, Clamp(5, 0), "n below one behaves like a single page")
}

func TestCurrentPage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, CurrentPage(callbacks.Nav(callbacks.KindNext, 1), 3))
	assert.Equal(t, 3, CurrentPage(callbacks.Click(7, 1), 3))
	assert.Equal(t, 0, CurrentPage(callbacks.Jump(2), 3))
	assert.Equal(t, 0, CurrentPage(callbacks.Unknown(), 3))
}
