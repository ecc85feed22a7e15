package defs

import "github.com/bwmarrin/discordgo"

var (
	manageGuildPermission int64 = discordgo.PermissionManageGuild
	guildOnly                   = false
	minOne                      = 1.0
	minZero                     = 0.0
	minMultiplier               = 0.01
)

var Level = &discordgo.ApplicationCommand{
	Name:         "level",
	Description:  "Show level and XP information",
	DMPermission: &guildOnly,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "seviye",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "Seviye ve XP bilgisini gösterir",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to look up (defaults to you)",
			Required:    false,
		},
	},
}

var Leaderboard = &discordgo.ApplicationCommand{
	Name:         "leaderboard",
	Description:  "Show the server XP leaderboard",
	DMPermission: &guildOnly,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "lider",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "Sunucu XP liderlik tablosunu gösterir",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "page",
			Description: "Page number",
			Required:    false,
			MinValue:    &minOne,
		},
	},
}

var XPAdd = &discordgo.ApplicationCommand{
	Name:                     "xp-add",
	Description:              "Add XP to a member",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "xpekle",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to reward", Required: true},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "XP to add", Required: true, MinValue: &minOne},
	},
}

var XPRemove = &discordgo.ApplicationCommand{
	Name:                     "xp-remove",
	Description:              "Remove XP from a member",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "xpsil",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to penalise", Required: true},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "XP to remove", Required: true, MinValue: &minOne},
	},
}

var XPReset = &discordgo.ApplicationCommand{
	Name:                     "xp-reset",
	Description:              "Reset a member's level, XP and level roles",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "seviyesifirla",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to reset", Required: true},
	},
}

var XPRange = &discordgo.ApplicationCommand{
	Name:                     "xp-range",
	Description:              "Set the XP range rolled per message",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.Turkish: "xpayar",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "min", Description: "Minimum XP", Required: true, MinValue: &minOne},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "max", Description: "Maximum XP", Required: true, MinValue: &minOne},
	},
}

var XPChannel = &discordgo.ApplicationCommand{
	Name:                     "xp-channel",
	Description:              "Enable or disable XP in a channel",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "block",
			Description: "Stop messages in a channel from earning XP",
			NameLocalizations: map[discordgo.Locale]string{
				discordgo.Turkish: "engelle",
			},
			Options: []*discordgo.ApplicationCommandOption{channelOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "unblock",
			Description: "Let messages in a channel earn XP again",
			NameLocalizations: map[discordgo.Locale]string{
				discordgo.Turkish: "ac",
			},
			Options: []*discordgo.ApplicationCommandOption{channelOption()},
		},
	},
}

var XPBoost = &discordgo.ApplicationCommand{
	Name:                     "xp-boost",
	Description:              "Manage XP multipliers for members and roles",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Set a multiplier for a member or role",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionMentionable, Name: "target", Description: "Member or role", Required: true},
				{Type: discordgo.ApplicationCommandOptionNumber, Name: "multiplier", Description: "Multiplier, e.g. 1.5", Required: true, MinValue: &minMultiplier},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Remove the multiplier of a member or role",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionMentionable, Name: "target", Description: "Member or role", Required: true},
			},
		},
	},
}

var LevelRole = &discordgo.ApplicationCommand{
	Name:                     "level-role",
	Description:              "Manage the roles granted at each level",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Grant a role when members reach a level",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level", Required: true, MinValue: &minZero},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to grant", Required: true},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Stop granting a role at a level",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level", Required: true, MinValue: &minZero},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "Show the configured level roles",
		},
	},
}

var XPSettings = &discordgo.ApplicationCommand{
	Name:                     "xp-settings",
	Description:              "Adjust leveling behaviour",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "rank-threshold",
			Description: "Strip level roles from members ranked below this position (0 or empty disables)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "value", Description: "Lowest rank that keeps level roles", Required: false, MinValue: &minZero},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove-previous",
			Description: "Remove lower level roles when a new one is granted",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Whether to remove previous level roles", Required: true},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "cooldown",
			Description: "Seconds a member must wait between XP-earning messages",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "seconds", Description: "Cooldown in seconds", Required: true, MinValue: &minZero},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "show",
			Description: "Show the current leveling settings",
		},
	},
}

var XPStatus = &discordgo.ApplicationCommand{
	Name:                     "xp-status",
	Description:              "Display leveling system and host status",
	DefaultMemberPermissions: &manageGuildPermission,
	DMPermission:             &guildOnly,
}

func channelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  "Text channel",
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews, discordgo.ChannelTypeGuildForum},
	}
}
