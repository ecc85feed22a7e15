package xp

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"leveling-bot/bot"
	"leveling-bot/config"
	"leveling-bot/model"
	"leveling-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const settingsColor = 0x5865F2

var userErrors = []error{
	config.ErrInvalidRange,
	config.ErrInvalidCooldown,
	config.ErrInvalidMultiplier,
	config.ErrInvalidLevel,
	config.ErrInvalidID,
	config.ErrAlreadyBlacklisted,
	config.ErrNotBlacklisted,
	config.ErrNoBoost,
	config.ErrNoLevelRole,
}

// applyMutation runs m against the settings store and answers the
// interaction with either success or the reason it was rejected.
func applyMutation(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, m config.Mutation, operation, success string) {
	if _, err := b.Settings.Update(m); err != nil {
		for _, known := range userErrors {
			if errors.Is(err, known) {
				utils.SendErrorResponse(s, i, capitalize(err.Error())+".")
				return
			}
		}
		log.Printf("[Config] %s failed: %v", operation, err)
		utils.LogError(s, b.GetConfig().LogChannelID, "Config", operation, err.Error())
		utils.SendErrorResponse(s, i, "Failed to save the leveling settings.")
		return
	}
	utils.SendPublicResponse(s, i, "✅ "+success)
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Config", operation,
		fmt.Sprintf("%s: %s", i.Member.User.Username, success))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HandleXPRange answers /xp-range min max.
func HandleXPRange(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := parseOptions(i.ApplicationCommandData().Options)
	min, _ := opts.int("min")
	max, _ := opts.int("max")
	applyMutation(s, i, b, config.SetXPRange(min, max), "XP Range",
		fmt.Sprintf("Messages now earn between **%d** and **%d** XP.", min, max))
}

// HandleXPChannel answers /xp-channel block|unblock channel.
func HandleXPChannel(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := subcommand(i.ApplicationCommandData())
	opt, ok := opts["channel"]
	if !ok {
		utils.SendErrorResponse(s, i, "Please choose a channel.")
		return
	}
	channelID := opt.ChannelValue(nil).ID

	switch sub {
	case "block":
		applyMutation(s, i, b, config.BlacklistChannel(channelID), "Channel Blacklisted",
			fmt.Sprintf("Messages in <#%s> no longer earn XP.", channelID))
	case "unblock":
		applyMutation(s, i, b, config.UnblacklistChannel(channelID), "Channel Unblacklisted",
			fmt.Sprintf("Messages in <#%s> earn XP again.", channelID))
	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

// HandleXPBoost answers /xp-boost set|remove target [multiplier].
func HandleXPBoost(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	sub, opts := subcommand(data)
	opt, ok := opts["target"]
	if !ok {
		utils.SendErrorResponse(s, i, "Please choose a member or role.")
		return
	}
	targetID, kind := mentionableTarget(data, opt)

	switch sub {
	case "set":
		multiplier := 0.0
		if m, ok := opts["multiplier"]; ok {
			multiplier = m.FloatValue()
		}
		applyMutation(s, i, b, config.SetBoost(targetID, multiplier), "XP Boost Set",
			fmt.Sprintf("XP multiplier for %s set to **x%.2f**.", mention(targetID, kind), multiplier))
	case "remove":
		applyMutation(s, i, b, config.RemoveBoost(targetID), "XP Boost Removed",
			fmt.Sprintf("XP multiplier for %s removed.", mention(targetID, kind)))
	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

// HandleLevelRole answers /level-role set|remove|list.
func HandleLevelRole(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := subcommand(i.ApplicationCommandData())
	level, _ := opts.int("level")

	switch sub {
	case "set":
		opt, ok := opts["role"]
		if !ok {
			utils.SendErrorResponse(s, i, "Please choose a role.")
			return
		}
		roleID := opt.RoleValue(nil, "").ID
		if roleID == i.GuildID {
			utils.SendErrorResponse(s, i, "The @everyone role cannot be a level role.")
			return
		}
		applyMutation(s, i, b, config.SetLevelRole(level, roleID), "Level Role Set",
			fmt.Sprintf("Members reaching level **%d** now receive <@&%s>.", level, roleID))
	case "remove":
		applyMutation(s, i, b, config.RemoveLevelRole(level), "Level Role Removed",
			fmt.Sprintf("Level **%d** no longer grants a role.", level))
	case "list":
		utils.SendEmbedResponse(s, i, BuildLevelRolesEmbed(b.GetSettings().LevelRoles), nil)
	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

// HandleXPSettings answers /xp-settings.
func HandleXPSettings(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, opts := subcommand(i.ApplicationCommandData())

	switch sub {
	case "rank-threshold":
		value, _ := opts.int("value")
		success := "Rank-based level role removal disabled."
		if value > 0 {
			success = fmt.Sprintf("Members ranked below **#%d** lose their level roles.", value)
		}
		applyMutation(s, i, b, config.SetRankThreshold(value), "Rank Threshold", success)
	case "remove-previous":
		enabled := false
		if opt, ok := opts["enabled"]; ok {
			enabled = opt.BoolValue()
		}
		success := "Previous level roles are now kept."
		if enabled {
			success = "Previous level roles are now removed when a new one is granted."
		}
		applyMutation(s, i, b, config.SetRemovePreviousRoles(enabled), "Remove Previous Roles", success)
	case "cooldown":
		seconds, _ := opts.int("seconds")
		applyMutation(s, i, b, config.SetCooldown(seconds), "XP Cooldown",
			fmt.Sprintf("Members now earn XP at most once every **%d** seconds.", seconds))
	case "show":
		utils.SendEmbedResponse(s, i, BuildSettingsEmbed(b.GetSettings()), nil)
	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

// BuildLevelRolesEmbed lists level roles by ascending level.
func BuildLevelRolesEmbed(levelRoles map[string]string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Level Roles", Color: settingsColor}
	if len(levelRoles) == 0 {
		embed.Description = "No level roles are configured."
		return embed
	}
	var sb strings.Builder
	for _, level := range sortedLevels(levelRoles) {
		fmt.Fprintf(&sb, "Level **%s** → <@&%s>\n", level, levelRoles[level])
	}
	embed.Description = sb.String()
	return embed
}

// BuildSettingsEmbed summarises the current leveling settings.
func BuildSettingsEmbed(st model.LevelingSettings) *discordgo.MessageEmbed {
	threshold := "Disabled"
	if st.RankThreshold != nil {
		threshold = fmt.Sprintf("Top %d", *st.RankThreshold)
	}
	removePrevious := "No"
	if st.RemovePreviousRoles {
		removePrevious = "Yes"
	}

	channels := "None"
	if len(st.BlacklistedChannels) > 0 {
		mentions := make([]string, len(st.BlacklistedChannels))
		for n, id := range st.BlacklistedChannels {
			mentions[n] = "<#" + id + ">"
		}
		channels = strings.Join(mentions, ", ")
	}

	boosts := "None"
	if len(st.XPBoosts) > 0 {
		ids := make([]string, 0, len(st.XPBoosts))
		for id := range st.XPBoosts {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		lines := make([]string, len(ids))
		for n, id := range ids {
			lines[n] = fmt.Sprintf("`%s` x%.2f", id, st.XPBoosts[id])
		}
		boosts = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title: "Leveling Settings",
		Color: settingsColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "XP Range", Value: fmt.Sprintf("%d - %d", st.XPRange.Min, st.XPRange.Max), Inline: true},
			{Name: "Cooldown", Value: fmt.Sprintf("%ds", st.CooldownSeconds), Inline: true},
			{Name: "Level Roles", Value: strconv.Itoa(len(st.LevelRoles)), Inline: true},
			{Name: "Rank Threshold", Value: threshold, Inline: true},
			{Name: "Remove Previous Roles", Value: removePrevious, Inline: true},
			{Name: "Blacklisted Channels", Value: channels},
			{Name: "XP Boosts", Value: boosts},
		},
	}
}

// sortedLevels orders level keys numerically; malformed keys sort last.
func sortedLevels(levelRoles map[string]string) []string {
	levels := make([]string, 0, len(levelRoles))
	for level := range levelRoles {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(a, b int) bool {
		x, errX := strconv.Atoi(levels[a])
		y, errY := strconv.Atoi(levels[b])
		switch {
		case errX != nil && errY != nil:
			return levels[a] < levels[b]
		case errX != nil:
			return false
		case errY != nil:
			return true
		}
		return x < y
	})
	return levels
}
