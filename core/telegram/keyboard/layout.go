package keyboard

import (
	"strconv"

	"github.com/m3rciful/pagerbot/core/telegram/callbacks"
	"github.com/m3rciful/pagerbot/core/telegram/paging"
)

const (
	gridRows = 2
	gridCols = 3
)

// Nav button labels.
const (
	LabelPrev   = "« Prev"
	LabelNext   = "Next »"
	LabelFirst  = "⏮ First"
	LabelLast   = "Last ⏭"
	LabelConfig = "⚙ Config"
)

// Button is a single inline button: what the user sees and what comes back on click.
type Button struct {
	Label   string
	Payload string
}

// Layout is an inline keyboard, top to bottom.
type Layout struct {
	Rows [][]Button
}

// NavRow returns the bottom row, or nil for an empty layout.
func (l Layout) NavRow() []Button {
	if len(l.Rows) == 0 {
		return nil
	}
	return l.Rows[len(l.Rows)-1]
}

// ButtonCount reports the total number of buttons.
func (l Layout) ButtonCount() int {
	n := 0
	for _, row := range l.Rows {
		n += len(row)
	}
	return n
}

// Build renders the keyboard of page out of n pages: a 2x3 grid and a nav row whose
// buttons depend on where page sits. page is clamped into [1, n] first.
func Build(page, n int) Layout {
	page = paging.Clamp(page, n)
	rows := make([][]Button, 0, gridRows+1)
	for i := 0; i < gridRows; i++ {
		row := make([]Button, 0, gridCols)
		for j := 0; j < gridCols; j++ {
			row = append(row, GridButton(page, i, j))
		}
		rows = append(rows, row)
	}
	rows = append(rows, navRow(page, n))
	return Layout{Rows: rows}
}

// GridButton returns the grid button at row i, column j of page.
func GridButton(page, i, j int) Button {
	index := i*gridCols + j + 1
	return Button{
		Label:   "BUTTON " + strconv.Itoa(page*10+index),
		Payload: callbacks.Encode(callbacks.Click(page, index)),
	}
}

// navRow picks the controls for page. With a single page the first-page rule wins.
func navRow(page, n int) []Button {
	switch {
	case page == 1:
		return []Button{
			navButton(LabelLast, callbacks.KindLast, page),
			navButton(LabelConfig, callbacks.KindConfig, page),
			navButton(LabelNext, callbacks.KindNext, page),
		}
	case page < max(n, 1):
		return []Button{
			navButton(LabelPrev, callbacks.KindPrev, page),
			navButton(LabelConfig, callbacks.KindConfig, page),
			navButton(LabelNext, callbacks.KindNext, page),
		}
	default:
		return []Button{
			navButton(LabelPrev, callbacks.KindPrev, page),
			navButton(LabelConfig, callbacks.KindConfig, page),
			navButton(LabelFirst, callbacks.KindFirst, page),
		}
	}
}

func navButton(label string, kind callbacks.Kind, page int) Button {
	return Button{Label: label, Payload: callbacks.Encode(callbacks.Nav(kind, page))}
}

// ReplyLayout is a reply keyboard shown under the input field; each label is sent back as text.
type ReplyLayout struct {
	Rows [][]string
}
