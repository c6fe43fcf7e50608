package commands

import "strings"

// Command describes a slash command as it appears in the Telegram command menu.
type Command struct {
	Description string
	Hidden      bool
	Aliases     []string
}

// Parse extracts the command from message text: "/start@pagerbot deep-link" yields "/start".
// ok is false when text is not a command.
func Parse(text string) (name string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) == 1 {
		return "", false
	}
	name, _, _ = strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	if name == "/" {
		return "", false
	}
	return strings.ToLower(name), true
}
