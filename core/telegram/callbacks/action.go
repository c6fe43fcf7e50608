// Package callbacks owns the inline button payload grammar:
//
//	action:<next|prev|first|last|config>[:<page>]
//	page:<page>
//	button:<page>-<index>
//
// Encode is the only producer of payload strings and Decode is its inverse.
package callbacks

// Kind enumerates what a button press asks for.
type Kind int

const (
	KindUnknown Kind = iota
	KindNext
	KindPrev
	KindFirst
	KindLast
	KindConfig
	KindPageJump
	KindButtonClick
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindNext:        "next",
	KindPrev:        "prev",
	KindFirst:       "first",
	KindLast:        "last",
	KindConfig:      "config",
	KindPageJump:    "page",
	KindButtonClick: "button",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsNav reports whether k is one of the navigation row actions.
func (k Kind) IsNav() bool {
	switch k {
	case KindNext, KindPrev, KindFirst, KindLast, KindConfig:
		return true
	}
	return false
}

// Action is a decoded button press. The zero value is an Unknown action.
//
// For navigation kinds page is the page the button was rendered on, for PageJump it is the
// requested page and for ButtonClick it is the page of the grid the button belongs to.
type Action struct {
	kind  Kind
	page  int
	index int
}

// Nav returns a navigation action rendered on page. Non-navigation kinds yield Unknown.
func Nav(kind Kind, page int) Action {
	if !kind.IsNav() {
		return Action{}
	}
	return Action{kind: kind, page: page}
}

// Jump returns a direct page jump.
func Jump(page int) Action {
	return Action{kind: KindPageJump, page: page}
}

// Click returns a grid button press.
func Click(page, index int) Action {
	return Action{kind: KindButtonClick, page: page, index: index}
}

// Unknown returns the action used for payloads nobody understands.
func Unknown() Action {
	return Action{}
}

func (a Action) Kind() Kind { return a.kind }
func (a Action) Page() int  { return a.page }
func (a Action) Index() int { return a.index }
