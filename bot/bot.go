package bot

import (
	"fmt"
	"log"
	"sync/atomic"

	"leveling-bot/config"
	"leveling-bot/leveling"
	"leveling-bot/model"
	"leveling-bot/utils"
	"leveling-bot/utils/database/levels"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	Settings           *config.LevelingStore
	Ledger             *levels.Store // nil when the database could not be opened
	Engine             *leveling.Engine
	Platform           *Platform
	CommandCooldowns   *utils.CommandCooldowns
	Confirmations      *utils.ReactionConfirmations
	scheduler          *Scheduler
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetSettings() model.LevelingSettings {
	return b.Settings.Snapshot()
}

func (b *Bot) GetEngine() *leveling.Engine {
	return b.Engine
}

func (b *Bot) GetCommandCooldowns() *utils.CommandCooldowns {
	return b.CommandCooldowns
}

func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

// GuildMembers lists every member of guildID.
func (b *Bot) GuildMembers(guildID string) ([]*discordgo.Member, error) {
	return b.Platform.Members(guildID)
}

func New(cfg *model.Config, settings *config.LevelingStore, ledger *levels.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	dg.StateEnabled = false

	platform := NewPlatform(dg)

	// A nil *levels.Store must not become a non-nil interface.
	var ledgerIface leveling.Ledger
	if ledger != nil {
		ledgerIface = ledger
	}

	b := &Bot{
		Session:          dg,
		Settings:         settings,
		Ledger:           ledger,
		Platform:         platform,
		Engine:           leveling.NewEngine(ledgerIface, leveling.NewReconciler(platform), settings, leveling.NewCooldowns(), cfg.IgnorePrefix),
		CommandCooldowns: utils.NewCommandCooldowns(),
		Confirmations:    utils.NewReactionConfirmations(),
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// RegisterCommands replaces the application's global slash commands.
func (b *Bot) RegisterCommands(cmds []*discordgo.ApplicationCommand) error {
	if b.Session.State == nil || b.Session.State.User == nil {
		return fmt.Errorf("cannot register commands before the session is ready")
	}
	log.Printf("Registering %d commands...", len(cmds))
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", cmds)
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}
	b.RegisteredCommands = registered
	return nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()
	if err := b.Session.Close(); err != nil {
		log.Printf("Error closing session: %v", err)
	}
	if b.Ledger != nil {
		if err := b.Ledger.Close(); err != nil {
			log.Printf("Error closing ledger: %v", err)
		}
	}
}
