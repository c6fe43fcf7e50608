package menu

import (
	coretelegram "github.com/m3rciful/pagerbot/core/telegram"
	"github.com/m3rciful/pagerbot/core/telegram/commands"
)

// RegisterCommands adds /start and /menu to reg.
func RegisterCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand(CommandStart, commands.Command{Description: "Open the welcome screen"})
	reg.RegisterCommand(CommandMenu, commands.Command{Description: "Show the pages"})
}
