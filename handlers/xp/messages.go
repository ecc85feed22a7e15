package xp

import (
	"context"
	"fmt"
	"log"

	"leveling-bot/bot"
	"leveling-bot/leveling"

	"github.com/bwmarrin/discordgo"
)

// OnMessageCreate feeds guild messages to the engine and announces level-ups.
func OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	member := m.Member
	if member != nil {
		member.User = m.Author
		member.GuildID = m.GuildID
	}

	res, granted := b.Engine.OnMessage(context.Background(), leveling.MessageEvent{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Author:    m.Author,
		Member:    member,
	})
	if !granted || !res.LeveledUp {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, LevelUpMessage(m.Author.ID, res.NewLevel)); err != nil {
		log.Printf("[Leveling] Failed to announce level-up for %s: %v", m.Author.ID, err)
	}
}

// LevelUpMessage is posted in the channel where a member levelled up.
func LevelUpMessage(userID string, level int) string {
	return fmt.Sprintf("🎉 Congratulations <@%s>, you reached **level %d**!", userID, level)
}
