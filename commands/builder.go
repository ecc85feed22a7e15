package commands

import (
	"leveling-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every slash command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Level,
		defs.Leaderboard,
		defs.XPAdd,
		defs.XPRemove,
		defs.XPReset,
		defs.XPRange,
		defs.XPChannel,
		defs.XPBoost,
		defs.LevelRole,
		defs.XPSettings,
		defs.XPStatus,
	}
}
