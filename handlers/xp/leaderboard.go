package xp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"leveling-bot/bot"
	"leveling-bot/model"
	"leveling-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	// LeaderboardPagePrefix prefixes the custom id of leaderboard page buttons.
	LeaderboardPagePrefix = "leaderboard_page"
	leaderboardPerPage    = 10
	leaderboardColor      = 0xF1C40F
)

var errLeaderboardQuery = errors.New("Something went wrong while loading the leaderboard.")

// HandleLeaderboard answers /leaderboard [page].
func HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	page := 1
	if v, ok := parseOptions(i.ApplicationCommandData().Options).int("page"); ok {
		page = v
	}
	embed, components, err := renderLeaderboard(s, b, i.GuildID, page)
	if err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	utils.SendEmbedResponse(s, i, embed, components)
}

// HandleLeaderboardPage answers the previous/next buttons.
func HandleLeaderboardPage(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	page, _, err := utils.ParsePaginationID(i.MessageComponentData().CustomID, LeaderboardPagePrefix)
	if err != nil {
		log.Printf("[Leveling] Bad leaderboard button: %v", err)
		return
	}
	embed, components, err := renderLeaderboard(s, b, i.GuildID, page)
	if err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	utils.UpdateEmbedResponse(s, i, embed, components)
}

func renderLeaderboard(s *discordgo.Session, b *bot.Bot, guildID string, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	if b.Ledger == nil {
		return nil, nil, errors.New(msgDatabaseUnavailable)
	}
	ctx := context.Background()

	total, err := b.Ledger.CountRanked(ctx, guildID)
	if err != nil {
		log.Printf("[Leveling] Leaderboard count failed for guild %s: %v", guildID, err)
		return nil, nil, errLeaderboardQuery
	}
	totalPages := utils.TotalPages(total, leaderboardPerPage)
	page = utils.ClampPage(page, totalPages)

	var rows []model.RankedUser
	if total > 0 {
		rows, err = b.Ledger.Top(ctx, guildID, leaderboardPerPage, (page-1)*leaderboardPerPage)
		if err != nil {
			log.Printf("[Leveling] Leaderboard query failed for guild %s: %v", guildID, err)
			return nil, nil, errLeaderboardQuery
		}
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		if member, err := s.GuildMember(guildID, row.UserID); err == nil {
			names[row.UserID] = displayName(member)
		}
	}

	guildName := "Server"
	if g, err := s.Guild(guildID); err == nil {
		guildName = g.Name
	}

	embed := BuildLeaderboardEmbed(guildName, rows, names, page, totalPages, total)
	return embed, utils.CreatePaginationComponents(page, totalPages, LeaderboardPagePrefix), nil
}

// BuildLeaderboardEmbed renders one leaderboard page. names maps user ids
// to display names; missing ids are shown as departed members.
func BuildLeaderboardEmbed(guildName string, rows []model.RankedUser, names map[string]string, page, totalPages, totalEntries int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏆 %s Leaderboard (Total XP)", guildName),
		Color: leaderboardColor,
	}
	switch {
	case totalEntries == 0:
		embed.Description = "Nobody on this server has earned XP yet."
		return embed
	case len(rows) == 0:
		embed.Description = "There are no members to show on this page."
	default:
		var sb strings.Builder
		for _, row := range rows {
			name, ok := names[row.UserID]
			if !ok {
				name = fmt.Sprintf("Departed member (ID: %s)", row.UserID)
			}
			fmt.Fprintf(&sb, "**%d.** %s - Level: %d (Total XP: %d)\n", row.Rank, name, row.Level, row.TotalXP)
		}
		embed.Description = sb.String()
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d/%d | Ranked members: %d", page, totalPages, totalEntries)}
	return embed
}
