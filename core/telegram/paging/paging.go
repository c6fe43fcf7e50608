// Package paging moves the page cursor of the inline menu. Everything here is pure.
package paging

import "github.com/m3rciful/pagerbot/core/telegram/callbacks"

// DefaultPages is the page count used when configuration does not say otherwise.
const DefaultPages = 3

// Clamp forces page into [1, n]. n below 1 is treated as 1.
func Clamp(page, n int) int {
	n = max(n, 1)
	return min(max(page, 1), n)
}

// Transition computes the page to show after a when current is on screen.
//
// ok is false for Config and Unknown actions: the caller must leave the keyboard alone.
// PageJump and ButtonClick carry their own page and ignore current.
// The result is always within [1, n].
func Transition(current int, a callbacks.Action, n int) (target int, ok bool) {
	current = Clamp(current, n)
	switch a.Kind() {
	case callbacks.KindNext:
		return Clamp(current+1, n), true
	case callbacks.KindPrev:
		return Clamp(current-1, n), true
	case callbacks.KindFirst:
		return 1, true
	case callbacks.KindLast:
		return Clamp(n, n), true
	case callbacks.KindPageJump, callbacks.KindButtonClick:
		return Clamp(a.Page(), n), true
	}
	return 0, false
}

// CurrentPage is the page a decoded action was pressed on, clamped into range.
// Page jumps do not know where they came from and report 0.
func CurrentPage(a callbacks.Action, n int) int {
	if a.Kind() == callbacks.KindPageJump || a.Kind() == callbacks.KindUnknown {
		return 0
	}
	return Clamp(a.Page(), n)
}
