package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"leveling-bot/bot"
	"leveling-bot/commands"
	"leveling-bot/handlers/xp"
	"leveling-bot/utils"

	"github.com/bwmarrin/discordgo"
)

type handlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot)

// cooldownScope says what a command cooldown is keyed on.
type cooldownScope int

const (
	perUser cooldownScope = iota
	perGuild
)

type commandSpec struct {
	handler  handlerFunc
	admin    bool
	cooldown time.Duration
	scope    cooldownScope
}

var commandSpecs = map[string]commandSpec{
	"level":       {handler: xp.HandleLevel, cooldown: 5 * time.Second, scope: perUser},
	"leaderboard": {handler: xp.HandleLeaderboard, cooldown: 10 * time.Second, scope: perGuild},
	"xp-add":      {handler: xp.HandleXPAdd, admin: true, cooldown: 2 * time.Second, scope: perUser},
	"xp-remove":   {handler: xp.HandleXPRemove, admin: true, cooldown: 2 * time.Second, scope: perUser},
	"xp-reset":    {handler: xp.HandleXPReset, admin: true, cooldown: 5 * time.Second, scope: perUser},
	"xp-range":    {handler: xp.HandleXPRange, admin: true},
	"xp-channel":  {handler: xp.HandleXPChannel, admin: true},
	"xp-boost":    {handler: xp.HandleXPBoost, admin: true},
	"level-role":  {handler: xp.HandleLevelRole, admin: true},
	"xp-settings": {handler: xp.HandleXPSettings, admin: true},
	"xp-status":   {handler: xp.HandleXPStatus, admin: true},
}

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	handlers := make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate), len(commandSpecs))
	for name, spec := range commandSpecs {
		name, spec := name, spec
		handlers[name] = func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if i.Member == nil {
				utils.SendErrorResponse(s, i, "This command can only be used in a server.")
				return
			}
			if spec.admin && !utils.IsAdmin(utils.CheckPermission(i.Member, b.GetConfig().DeveloperUserIDs)) {
				utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
				return
			}
			if spec.cooldown > 0 {
				if wait := b.CommandCooldowns.Acquire(cooldownKey(name, spec.scope, i), spec.cooldown, time.Now()); wait > 0 {
					utils.SendErrorResponse(s, i, CooldownMessage(wait))
					return
				}
			}
			spec.handler(s, i, b)
		}
	}
	return handlers
}

func cooldownKey(name string, scope cooldownScope, i *discordgo.InteractionCreate) string {
	if scope == perGuild {
		return utils.CooldownKey(name, i.GuildID)
	}
	return utils.CooldownKey(name, i.GuildID+":"+i.Member.User.ID)
}

// CooldownMessage tells a member how long to wait before retrying.
func CooldownMessage(wait time.Duration) string {
	return fmt.Sprintf("⏳ This command is on cooldown. Try again in %.1f seconds.", wait.Seconds())
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", r.User.Username, r.User.Discriminator)
		if err := b.RegisterCommands(commands.GenerateCommands()); err != nil {
			log.Printf("Failed to register commands: %v", err)
		}
		if err := utils.LogInfo(s, b.GetConfig().LogChannelID, "System", "Startup", "Bot has started successfully."); err != nil {
			log.Printf("Failed to send startup log: %v", err)
		}

		guildIDs := make([]string, 0, len(r.Guilds))
		for _, g := range r.Guilds {
			guildIDs = append(guildIDs, g.ID)
		}
		scheduler := b.GetScheduler()
		scheduler.Start()
		scheduler.StartCorrection(guildIDs)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		xp.OnMessageCreate(s, m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if s.State.User != nil && r.UserID == s.State.User.ID {
			return
		}
		b.Confirmations.Resolve(r.MessageID, r.UserID, r.Emoji.Name)
	})
}

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, xp.LeaderboardPagePrefix+":") {
			xp.HandleLeaderboardPage(s, i, b)
		}
	}
}
