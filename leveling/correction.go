package leveling

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CorrectionReport summarises one guild's startup correction pass.
type CorrectionReport struct {
	GuildID  string
	Checked  int
	Changed  int
	Skipped  bool
	Failures int
}

// CorrectGuild re-derives every member's level from the ledger and resets
// their level roles to match. The role hierarchy is loaded once per guild. It pauses for delay between members and stops
// early when ctx is cancelled.
func (e *Engine) CorrectGuild(ctx context.Context, guildID string, members []*discordgo.Member, delay time.Duration) CorrectionReport {
	report := CorrectionReport{GuildID: guildID}
	if e.ledger == nil {
		log.Printf("[Leveling] %v, skipping role correction for guild %s.", ErrNoDatabase, guildID)
		report.Skipped = true
		return report
	}
	h, ok := e.roles.Hierarchy(guildID)
	if !ok {
		report.Skipped = true
		return report
	}

	levelRoles := e.settings.Snapshot().LevelRoles
	for _, member := range members {
		if member == nil || member.User == nil || member.User.Bot {
			continue
		}
		if ctx.Err() != nil {
			log.Printf("[Leveling] Role correction for guild %s interrupted after %d members.", guildID, report.Checked)
			return report
		}

		p, _, err := e.ledger.Lookup(ctx, guildID, member.User.ID)
		if err != nil {
			log.Printf("[Leveling] Failed to read progress for %s during correction: %v", member.User.ID, err)
			report.Failures++
			continue
		}
		level, _ := Decompose(p.TotalXP)
		if !e.roles.CorrectWith(h, guildID, member, level, levelRoles).Empty() {
			report.Changed++
		}
		report.Checked++

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}
	}
	return report
}
