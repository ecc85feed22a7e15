package bot

import (
	"context"
	"log"
	"sync"
	"time"

	"leveling-bot/leveling"
	"leveling-bot/model"
	"leveling-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const cooldownCleanupInterval = 1 * time.Hour

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	model.Bot
	GetEngine() *leveling.Engine
	GetCommandCooldowns() *utils.CommandCooldowns
	GuildMembers(guildID string) ([]*discordgo.Member, error)
}

// Scheduler manages background work: cooldown cleanup and the one-off
// startup role correction.
type Scheduler struct {
	bot            BotProvider
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startOnce      sync.Once
	correctionOnce sync.Once
	stopOnce       sync.Once
	now            func() time.Time
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		bot:    bot,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

// Start begins the periodic tasks. Calling it more than once has no effect.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.startScheduledTasks()
	})
}

// Stop terminates all scheduled tasks gracefully, interrupting a running
// correction pass.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		log.Println("[Scheduler] Stopping scheduler...")
		s.cancel()
		s.wg.Wait()
		log.Println("[Scheduler] Scheduler stopped.")
	})
}

func (s *Scheduler) startScheduledTasks() {
	defer s.wg.Done()
	cooldownTicker := time.NewTicker(cooldownCleanupInterval)
	defer cooldownTicker.Stop()

	for {
		select {
		case <-cooldownTicker.C:
			messages, commands := s.cleanupCooldowns()
			log.Printf("[Scheduler] Pruned %d message cooldowns and %d command cooldowns.", messages, commands)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) cleanupCooldowns() (messages, commands int) {
	now := s.now()
	window := time.Duration(s.bot.GetSettings().CooldownSeconds) * time.Second
	messages = s.bot.GetEngine().Cooldowns().Prune(now, window)
	commands = s.bot.GetCommandCooldowns().Prune(now)
	return messages, commands
}

// StartCorrection launches the startup role correction for guildIDs in the
// background. Only the first call per process does anything, so reconnects
// that deliver a new Ready do not repeat it.
func (s *Scheduler) StartCorrection(guildIDs []string) {
	if s.bot.GetConfig().DisableStartupCorrection {
		log.Println("[Scheduler] Startup role correction is disabled by environment variable.")
		return
	}
	s.correctionOnce.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runStartupCorrection(guildIDs)
		}()
	})
}
