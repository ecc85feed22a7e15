package xp

import (
	"github.com/bwmarrin/discordgo"
)

const (
	msgDatabaseUnavailable = "The leveling database is unavailable right now, please try again later."
	msgMemberNotFound      = "Member not found. Please mention a member of this server."
)

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

func parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	m := make(optionMap, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// subcommand returns the invoked subcommand name and its options.
func subcommand(data discordgo.ApplicationCommandInteractionData) (string, optionMap) {
	if len(data.Options) == 0 {
		return "", optionMap{}
	}
	first := data.Options[0]
	if first.Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", parseOptions(data.Options)
	}
	return first.Name, parseOptions(first.Options)
}

func (m optionMap) int(name string) (int, bool) {
	opt, ok := m[name]
	if !ok {
		return 0, false
	}
	return int(opt.IntValue()), true
}

// mentionableTarget resolves a mentionable option to an id and a display
// kind ("member" or "role").
func mentionableTarget(data discordgo.ApplicationCommandInteractionData, opt *discordgo.ApplicationCommandInteractionDataOption) (id, kind string) {
	id, _ = opt.Value.(string)
	if data.Resolved != nil {
		if _, ok := data.Resolved.Roles[id]; ok {
			return id, "role"
		}
	}
	return id, "member"
}

func mention(id, kind string) string {
	if kind == "role" {
		return "<@&" + id + ">"
	}
	return "<@" + id + ">"
}

func displayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}
