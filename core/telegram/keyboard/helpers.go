package keyboard

import tele "gopkg.in/telebot.v4"

// InlineMarkup converts a Layout into telebot markup. Payloads are passed through as raw
// callback data, without telebot's "\f<unique>|" envelope.
func InlineMarkup(l Layout) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(l.Rows))
	for _, row := range l.Rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Label, Data: b.Payload})
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// ReplyMarkup builds a persistent, resized reply keyboard from rows of labels.
func ReplyMarkup(l ReplyLayout) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(l.Rows))
	for _, labels := range l.Rows {
		buttons := make([]tele.Btn, 0, len(labels))
		for _, label := range labels {
			buttons = append(buttons, markup.Text(label))
		}
		rows = append(rows, markup.Row(buttons...))
	}
	markup.Reply(rows...)
	return markup
}

// ChunkLabels splits a flat list of labels into rows of up to n labels.
func ChunkLabels(labels []string, n int) ReplyLayout {
	if n <= 0 {
		n = 1
	}
	var rows [][]string
	for i := 0; i < len(labels); i += n {
		end := min(i+n, len(labels))
		rows = append(rows, append([]string(nil), labels[i:end]...))
	}
	return ReplyLayout{Rows: rows}
}
