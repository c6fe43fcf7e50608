package callbacks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	prefixAction = "action"
	prefixPage   = "page"
	prefixButton = "button"

	sep      = ":"
	indexSep = "-"

	// fallbackPage is used whenever a numeric field cannot be parsed.
	fallbackPage = 1
)

// ErrMalformedPayload marks a payload whose numeric fields could not be parsed.
// Decode still returns a usable Action alongside it.
var ErrMalformedPayload = errors.New("callbacks: malformed payload")

var navByName = map[string]Kind{
	"next":   KindNext,
	"prev":   KindPrev,
	"first":  KindFirst,
	"last":   KindLast,
	"config": KindConfig,
}

// Encode renders a into its wire form. Unknown actions encode to the empty string.
func Encode(a Action) string {
	switch {
	case a.kind.IsNav():
		return prefixAction + sep + a.kind.String() + sep + strconv.Itoa(a.page)
	case a.kind == KindPageJump:
		return prefixPage + sep + strconv.Itoa(a.page)
	case a.kind == KindButtonClick:
		return prefixButton + sep + strconv.Itoa(a.page) + indexSep + strconv.Itoa(a.index)
	}
	return ""
}

// Decode parses a callback payload.
//
// Unrecognised prefixes and nav names decode to Unknown with a nil error. When a numeric
// field is missing or broken the page falls back to 1, the index to 0, and the returned error
// wraps ErrMalformedPayload; the Action is still meant to be used.
func Decode(raw string) (Action, error) {
	kind, rest, _ := strings.Cut(strings.TrimSpace(raw), sep)
	switch kind {
	case prefixAction:
		return decodeNav(raw, rest)
	case prefixPage:
		page, err := parsePage(rest)
		if err != nil {
			return Jump(fallbackPage), malformed(raw, "page", err)
		}
		return Jump(page), nil
	case prefixButton:
		return decodeButton(raw, rest)
	}
	return Unknown(), nil
}

func decodeNav(raw, rest string) (Action, error) {
	name, pageRaw, hasPage := strings.Cut(rest, sep)
	kind, ok := navByName[name]
	if !ok {
		return Unknown(), nil
	}
	if !hasPage {
		return Nav(kind, fallbackPage), malformed(raw, "page", errors.New("missing"))
	}
	page, err := parsePage(pageRaw)
	if err != nil {
		return Nav(kind, fallbackPage), malformed(raw, "page", err)
	}
	return Nav(kind, page), nil
}

func decodeButton(raw, rest string) (Action, error) {
	pageRaw, indexRaw, ok := cutIndex(rest)
	if !ok {
		return Click(fallbackPage, 0), malformed(raw, "page-index", errors.New("missing separator"))
	}
	page, pageErr := parsePage(pageRaw)
	if pageErr != nil {
		page = fallbackPage
	}
	index, indexErr := strconv.Atoi(indexRaw)
	if indexErr != nil {
		index = 0
	}
	if err := errors.Join(pageErr, indexErr); err != nil {
		return Click(page, index), malformed(raw, "page-index", err)
	}
	return Click(page, index), nil
}

// cutIndex splits "P-I" on the first separator after the leading byte, so a negative page
// such as "-1-3" still splits into "-1" and "3".
func cutIndex(s string) (string, string, bool) {
	if len(s) < 2 {
		return s, "", false
	}
	i := strings.Index(s[1:], indexSep)
	if i < 0 {
		return s, "", false
	}
	return s[:i+1], s[i+2:], true
}

func parsePage(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func malformed(raw, field string, cause error) error {
	return fmt.Errorf("%w: %q field %s: %v", ErrMalformedPayload, raw, field, cause)
}
