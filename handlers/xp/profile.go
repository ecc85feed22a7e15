package xp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"leveling-bot/bot"
	"leveling-bot/leveling"
	"leveling-bot/model"
	"leveling-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	progressBarWidth  = 20
	defaultEmbedColor = 0x3498DB
)

// LevelCard is everything the /level embed shows.
type LevelCard struct {
	Name      string
	AvatarURL string
	Progress  model.UserProgress
	Rank      int
	TopRole   *discordgo.Role
	Boost     float64
}

// HandleLevel answers /level [user].
func HandleLevel(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if b.Ledger == nil {
		log.Printf("[Leveling] /level: %v", leveling.ErrNoDatabase)
		utils.SendErrorResponse(s, i, msgDatabaseUnavailable)
		return
	}

	target := i.Member
	opts := parseOptions(i.ApplicationCommandData().Options)
	if opt, ok := opts["user"]; ok {
		member, err := s.GuildMember(i.GuildID, opt.UserValue(nil).ID)
		if err != nil {
			utils.SendErrorResponse(s, i, msgMemberNotFound)
			return
		}
		target = member
	}

	ctx := context.Background()
	p, _, err := b.Ledger.Lookup(ctx, i.GuildID, target.User.ID)
	if err != nil {
		log.Printf("[Leveling] /level: failed to read progress for %s: %v", target.User.ID, err)
		utils.SendErrorResponse(s, i, msgDatabaseUnavailable)
		return
	}
	rank, err := b.Ledger.Rank(ctx, i.GuildID, target.User.ID)
	if err != nil {
		log.Printf("[Leveling] /level: failed to rank %s: %v", target.User.ID, err)
	}

	var topRole *discordgo.Role
	if roles, err := s.GuildRoles(i.GuildID); err != nil {
		log.Printf("[Leveling] /level: failed to fetch roles for guild %s: %v", i.GuildID, err)
	} else {
		topRole = highestRole(target, roles, i.GuildID)
	}

	card := LevelCard{
		Name:      displayName(target),
		AvatarURL: target.AvatarURL("256"),
		Progress:  p,
		Rank:      rank,
		TopRole:   topRole,
		Boost:     leveling.BoostFor(target, b.GetSettings().XPBoosts),
	}
	utils.SendEmbedResponse(s, i, BuildLevelEmbed(card), nil)
}

// BuildLevelEmbed renders a LevelCard.
func BuildLevelEmbed(c LevelCard) *discordgo.MessageEmbed {
	level, xp := c.Progress.Level, c.Progress.XP
	needed := leveling.XPRequiredForLevel(level)

	rank := "N/A"
	if c.Rank > 0 {
		rank = fmt.Sprintf("**#%d**", c.Rank)
	}
	topRole := "None"
	color := defaultEmbedColor
	if c.TopRole != nil {
		topRole = c.TopRole.Name
		if c.TopRole.Color != 0 {
			color = c.TopRole.Color
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's Level", c.Name),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: fmt.Sprintf("**%d**", level), Inline: true},
			{Name: "XP", Value: fmt.Sprintf("**%d / %d**", xp, needed), Inline: true},
			{Name: "Rank", Value: rank, Inline: true},
			{Name: "Top Role", Value: topRole, Inline: true},
			{Name: "XP Multiplier", Value: fmt.Sprintf("**x%.2f**", c.Boost), Inline: true},
			{Name: fmt.Sprintf("Progress to Level %d", level+1), Value: "`" + ProgressBar(xp, needed) + "`"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Total XP earned: %d", c.Progress.TotalXP)},
	}
	if c.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: c.AvatarURL}
	}
	return embed
}

// ProgressBar draws a fixed-width bar for xp out of needed.
func ProgressBar(xp, needed int) string {
	filled := 0
	if needed > 0 {
		filled = xp * progressBarWidth / needed
	}
	filled = max(0, min(filled, progressBarWidth))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("─", progressBarWidth-filled) + "]"
}

// highestRole returns the member's highest-positioned role, ignoring @everyone.
func highestRole(member *discordgo.Member, roles []*discordgo.Role, guildID string) *discordgo.Role {
	byID := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}
	var top *discordgo.Role
	for _, id := range member.Roles {
		r, ok := byID[id]
		if !ok || r.ID == guildID {
			continue
		}
		if top == nil || r.Position > top.Position {
			top = r
		}
	}
	return top
}
