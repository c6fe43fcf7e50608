package menu

import "fmt"

// Command keys registered by RegisterCommands.
const (
	CommandStart = "/start"
	CommandMenu  = "/menu"
)

// Reply keyboard defaults. Only the home label has a handler; the others echo.
const (
	DefaultHomeLabel     = "🏠 Home"
	DefaultOrdersLabel   = "📦 My orders"
	DefaultReferralLabel = "💰 Referrals"
)

// WelcomeText is sent by /start together with the reply keyboard.
const WelcomeText = "Welcome! Use the buttons under the message to move between pages."

// Caption is the text of a page message.
func Caption(page, n int) string {
	return fmt.Sprintf("Page %d of %d", page, n)
}

// HomeText is sent when the home label of the reply keyboard is pressed.
func HomeText(n int) string {
	return "Back to the first page.\n" + Caption(1, n)
}

// EchoText answers free text that is neither a command nor a keyboard label.
func EchoText(text string) string {
	return "You said: " + text + "\nSend /start or /menu to open the pages."
}
