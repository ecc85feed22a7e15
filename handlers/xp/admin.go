package xp

import (
	"context"
	"fmt"
	"log"
	"time"

	"leveling-bot/bot"
	"leveling-bot/leveling"
	"leveling-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const resetConfirmTimeout = 15 * time.Second

// targetMember resolves the required "user" option to a guild member.
func targetMember(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) (*discordgo.Member, bool) {
	opt, ok := opts["user"]
	if !ok {
		utils.SendErrorResponse(s, i, msgMemberNotFound)
		return nil, false
	}
	member, err := s.GuildMember(i.GuildID, opt.UserValue(nil).ID)
	if err != nil {
		utils.SendErrorResponse(s, i, msgMemberNotFound)
		return nil, false
	}
	if member.User != nil && member.User.Bot {
		utils.SendErrorResponse(s, i, "Bots do not earn XP.")
		return nil, false
	}
	return member, true
}

func positiveAmount(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap) (int, bool) {
	amount, ok := opts.int("amount")
	if !ok || amount <= 0 {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Amount must be a positive number. Usage: `/%s user amount`", i.ApplicationCommandData().Name))
		return 0, false
	}
	return amount, true
}

// HandleXPAdd answers /xp-add user amount.
func HandleXPAdd(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if b.Ledger == nil {
		utils.SendErrorResponse(s, i, msgDatabaseUnavailable)
		return
	}
	opts := parseOptions(i.ApplicationCommandData().Options)
	member, ok := targetMember(s, i, opts)
	if !ok {
		return
	}
	amount, ok := positiveAmount(s, i, opts)
	if !ok {
		return
	}

	res := b.Engine.Grant(context.Background(), i.GuildID, member, amount)
	utils.SendPublicResponse(s, i, fmt.Sprintf("✅ Added **%d XP** to %s. New level: **%d**", amount, mention(member.User.ID, "member"), res.NewLevel))

	utils.LogInfo(s, b.GetConfig().LogChannelID, "Leveling", "XP Added",
		fmt.Sprintf("%s added %d XP to %s (level %d -> %d)", i.Member.User.Username, amount, member.User.Username, res.OldLevel, res.NewLevel))
}

// HandleXPRemove answers /xp-remove user amount.
func HandleXPRemove(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if b.Ledger == nil {
		utils.SendErrorResponse(s, i, msgDatabaseUnavailable)
		return
	}
	opts := parseOptions(i.ApplicationCommandData().Options)
	member, ok := targetMember(s, i, opts)
	if !ok {
		return
	}
	amount, ok := positiveAmount(s, i, opts)
	if !ok {
		return
	}

	res := b.Engine.Grant(context.Background(), i.GuildID, member, -amount)
	utils.SendPublicResponse(s, i, removalMessage(member.User.ID, amount, res))

	utils.LogInfo(s, b.GetConfig().LogChannelID, "Leveling", "XP Removed",
		fmt.Sprintf("%s removed %d XP from %s (level %d -> %d)", i.Member.User.Username, amount, member.User.Username, res.OldLevel, res.NewLevel))
}

func removalMessage(userID string, amount int, res leveling.GrantResult) string {
	msg := fmt.Sprintf("✅ Removed **%d XP** from %s. New level: **%d**", amount, mention(userID, "member"), res.NewLevel)
	if res.NewLevel < res.OldLevel {
		msg += fmt.Sprintf(" (dropped from level %d)", res.OldLevel)
	}
	return msg
}

// HandleXPReset answers /xp-reset user. The invoker confirms with a reaction
// on a channel message; no answer within the window cancels.
func HandleXPReset(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if b.Ledger == nil {
		utils.SendErrorResponse(s, i, msgDatabaseUnavailable)
		return
	}
	opts := parseOptions(i.ApplicationCommandData().Options)
	member, ok := targetMember(s, i, opts)
	if !ok {
		return
	}

	utils.SendSimpleResponse(s, i, "⏳ Waiting for your confirmation below.")

	prompt, err := s.ChannelMessageSend(i.ChannelID, fmt.Sprintf(
		"⚠️ %s, reset all XP, levels and level roles of %s? React with %s to confirm or %s to cancel (%ds).",
		mention(i.Member.User.ID, "member"), mention(member.User.ID, "member"),
		utils.ConfirmEmoji, utils.CancelEmoji, int(resetConfirmTimeout.Seconds())))
	if err != nil {
		log.Printf("[Leveling] Failed to send reset confirmation: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Could not post the confirmation message.")
		return
	}

	pending := b.Confirmations.Register(prompt.ID, i.Member.User.ID)
	for _, emoji := range []string{utils.ConfirmEmoji, utils.CancelEmoji} {
		if err := s.MessageReactionAdd(prompt.ChannelID, prompt.ID, emoji); err != nil {
			log.Printf("[Leveling] Failed to add reaction %s: %v", emoji, err)
		}
	}

	invoker := i.Member.User.Username
	go func() {
		confirmed, answered := pending.Wait(context.Background(), resetConfirmTimeout)
		var text string
		switch {
		case confirmed:
			text = resetMember(s, b, i.GuildID, member, invoker)
		case answered:
			text = "Reset cancelled."
		default:
			text = "No answer received, reset cancelled."
		}
		if _, err := s.ChannelMessageEdit(prompt.ChannelID, prompt.ID, text); err != nil {
			log.Printf("[Leveling] Failed to edit reset confirmation: %v", err)
		}
		if err := s.MessageReactionsRemoveAll(prompt.ChannelID, prompt.ID); err != nil {
			log.Printf("[Leveling] Failed to clear reactions: %v", err)
		}
	}()
}

func resetMember(s *discordgo.Session, b *bot.Bot, guildID string, member *discordgo.Member, invoker string) string {
	if err := b.Ledger.Reset(context.Background(), guildID, member.User.ID); err != nil {
		log.Printf("[Leveling] Failed to reset %s in guild %s: %v", member.User.ID, guildID, err)
		return "❌ " + msgDatabaseUnavailable
	}
	change := b.Engine.Roles().RemoveAll(guildID, member, b.GetSettings().LevelRoles)
	log.Printf("[Leveling] %s reset %s, removed roles %v", invoker, member.User.ID, change.Removed)

	utils.LogInfo(s, b.GetConfig().LogChannelID, "Leveling", "XP Reset",
		fmt.Sprintf("%s reset %s (%d level roles removed)", invoker, member.User.Username, len(change.Removed)))
	return fmt.Sprintf("✅ All XP, levels and level roles of %s have been reset.", mention(member.User.ID, "member"))
}
