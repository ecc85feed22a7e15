package leveling

import (
	"context"
	"log"
	"strings"
	"time"

	"leveling-bot/model"

	"github.com/bwmarrin/discordgo"
)

// Ledger persists per-member progress.
type Ledger interface {
	Get(ctx context.Context, guildID, userID string) (model.UserProgress, error)
	Lookup(ctx context.Context, guildID, userID string) (model.UserProgress, bool, error)
	Upsert(ctx context.Context, p model.UserProgress) error
	Rank(ctx context.Context, guildID, userID string) (int, error)
}

// SettingsSource yields the current leveling settings.
type SettingsSource interface {
	Snapshot() model.LevelingSettings
}

// GrantResult describes the level transition caused by a grant.
type GrantResult struct {
	LeveledUp bool
	NewLevel  int
	OldLevel  int
}

// MessageEvent is the part of an inbound chat message the engine looks at.
type MessageEvent struct {
	GuildID   string
	ChannelID string
	Content   string
	Author    *discordgo.User
	Member    *discordgo.Member
}

// Engine applies XP changes and keeps level roles in sync.
type Engine struct {
	ledger       Ledger
	roles        *Reconciler
	settings     SettingsSource
	cooldowns    *Cooldowns
	ignorePrefix string

	// Roll and Now are swapped out in tests.
	Roll func(min, max int) int
	Now  func() time.Time
}

// NewEngine wires an engine. ledger may be nil, in which case every grant is a no-op.
func NewEngine(ledger Ledger, roles *Reconciler, settings SettingsSource, cooldowns *Cooldowns, ignorePrefix string) *Engine {
	return &Engine{
		ledger:       ledger,
		roles:        roles,
		settings:     settings,
		cooldowns:    cooldowns,
		ignorePrefix: ignorePrefix,
		Roll:         RollXP,
		Now:          time.Now,
	}
}

// Cooldowns exposes the message cooldown table.
func (e *Engine) Cooldowns() *Cooldowns {
	return e.cooldowns
}

// Roles exposes the reconciler.
func (e *Engine) Roles() *Reconciler {
	return e.roles
}

// Grant adds delta (which may be negative) to the member's total XP. Total
// XP never drops below zero. Storage failures are logged and degrade to a
// zero result; role failures are logged and do not abort the grant.
func (e *Engine) Grant(ctx context.Context, guildID string, member *discordgo.Member, delta int) GrantResult {
	if e.ledger == nil {
		log.Printf("[Leveling] %v, cannot grant XP.", ErrNoDatabase)
		return GrantResult{}
	}
	userID := memberID(member)
	settings := e.settings.Snapshot()

	old, err := e.ledger.Get(ctx, guildID, userID)
	if err != nil {
		log.Printf("[Leveling] Failed to read progress for %s in guild %s: %v", userID, guildID, err)
		return GrantResult{}
	}

	newTotal := old.TotalXP + delta
	if newTotal < 0 {
		newTotal = 0
	}
	newLevel, newXP := Decompose(newTotal)

	if err := e.ledger.Upsert(ctx, model.UserProgress{
		UserID:  userID,
		GuildID: guildID,
		Level:   newLevel,
		XP:      newXP,
		TotalXP: newTotal,
	}); err != nil {
		log.Printf("[Leveling] Failed to store progress for %s in guild %s: %v", userID, guildID, err)
	}
	log.Printf("[Leveling] XP change for %s: %+d | total %d | level %d -> %d", memberName(member), delta, newTotal, old.Level, newLevel)

	if newLevel != old.Level {
		e.roles.Reconcile(guildID, member, newLevel, settings.LevelRoles, settings.RemovePreviousRoles)
	}

	if settings.RankThreshold != nil {
		rank, err := e.ledger.Rank(ctx, guildID, userID)
		if err != nil {
			log.Printf("[Leveling] Failed to rank %s in guild %s: %v", userID, guildID, err)
		} else if rank > 0 && rank > *settings.RankThreshold {
			log.Printf("[Leveling] %s is ranked %d (threshold %d), removing all level roles.", memberName(member), rank, *settings.RankThreshold)
			e.roles.RemoveAll(guildID, member, settings.LevelRoles)
		}
	}

	return GrantResult{
		LeveledUp: newLevel > old.Level,
		NewLevel:  newLevel,
		OldLevel:  old.Level,
	}
}

// OnMessage runs the eligibility filter for an inbound message and grants
// the rolled XP. The boolean is false when the message earned nothing.
func (e *Engine) OnMessage(ctx context.Context, m MessageEvent) (GrantResult, bool) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return GrantResult{}, false
	}
	if e.ignorePrefix != "" && strings.HasPrefix(m.Content, e.ignorePrefix) {
		return GrantResult{}, false
	}

	settings := e.settings.Snapshot()
	if settings.IsBlacklisted(m.ChannelID) {
		return GrantResult{}, false
	}

	window := time.Duration(settings.CooldownSeconds) * time.Second
	if !e.cooldowns.TryAcquire(m.GuildID, m.Author.ID, e.Now(), window) {
		return GrantResult{}, false
	}

	member := m.Member
	if member == nil {
		member = &discordgo.Member{}
	}
	if member.User == nil {
		member.User = m.Author
	}

	base := e.Roll(settings.XPRange.Min, settings.XPRange.Max)
	boost := BoostFor(member, settings.XPBoosts)
	delta := BoostedXP(base, boost)

	return e.Grant(ctx, m.GuildID, member, delta), true
}
