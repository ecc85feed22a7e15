package bot

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"leveling-bot/leveling"
	"leveling-bot/utils"
)

// maxCorrectionWorkers bounds how many guilds are corrected at once.
const maxCorrectionWorkers = 3

// CorrectionRun holds the statistics of one startup correction pass.
type CorrectionRun struct {
	Reports   []leveling.CorrectionReport
	Errors    []string
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the time taken for the pass.
func (r *CorrectionRun) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Totals sums the per-guild reports.
func (r *CorrectionRun) Totals() (checked, changed, skipped int) {
	for _, rep := range r.Reports {
		checked += rep.Checked
		changed += rep.Changed
		if rep.Skipped {
			skipped++
		}
	}
	return checked, changed, skipped
}

func (s *Scheduler) runStartupCorrection(guildIDs []string) *CorrectionRun {
	log.Printf("[Scheduler] Starting level role correction for %d guilds...", len(guildIDs))
	run := &CorrectionRun{StartTime: time.Now()}
	delay := time.Duration(s.bot.GetConfig().StartupCorrectionDelayMS) * time.Millisecond

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	guildChan := make(chan string, len(guildIDs))
	for _, id := range guildIDs {
		guildChan <- id
	}
	close(guildChan)

	for w := 0; w < maxCorrectionWorkers && w < len(guildIDs); w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for guildID := range guildChan {
				if s.ctx.Err() != nil {
					return
				}
				members, err := s.bot.GuildMembers(guildID)
				if err != nil {
					log.Printf("[Scheduler] [worker-%d] %v", workerID, err)
					mu.Lock()
					run.Errors = append(run.Errors, err.Error())
					mu.Unlock()
					if len(members) == 0 {
						continue
					}
				}
				report := s.bot.GetEngine().CorrectGuild(s.ctx, guildID, members, delay)
				log.Printf("[Scheduler] [worker-%d] guild %s: checked=%d changed=%d skipped=%t failures=%d",
					workerID, guildID, report.Checked, report.Changed, report.Skipped, report.Failures)
				mu.Lock()
				run.Reports = append(run.Reports, report)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	run.EndTime = time.Now()
	checked, changed, skipped := run.Totals()
	log.Printf("[Scheduler] Level role correction completed - guilds=%d members=%d changed=%d skipped=%d duration=%s",
		len(run.Reports), checked, changed, skipped, run.Duration())
	s.sendCorrectionSummary(run)
	return run
}

func (s *Scheduler) sendCorrectionSummary(run *CorrectionRun) {
	logChannelID := s.bot.GetConfig().LogChannelID
	if logChannelID == "" {
		log.Println("[Scheduler] No log channel configured, correction summary not sent to Discord")
		return
	}
	send := utils.LogInfo
	if len(run.Errors) > 0 {
		send = utils.LogWarn
	}
	if err := send(s.bot.GetSession(), logChannelID, "Leveling", "Startup role correction", buildCorrectionSummary(run)); err != nil {
		log.Printf("[Scheduler] Failed to send correction summary: %v", err)
	}
}

func buildCorrectionSummary(run *CorrectionRun) string {
	checked, changed, skipped := run.Totals()

	var summary strings.Builder
	summary.WriteString("🔄 **Level role correction finished**\n")
	summary.WriteString(fmt.Sprintf("🏠 **Guilds**: %d (%d skipped)\n", len(run.Reports), skipped))
	summary.WriteString(fmt.Sprintf("👥 **Members checked**: %d\n", checked))
	summary.WriteString(fmt.Sprintf("🛠️ **Members changed**: %d\n", changed))
	summary.WriteString(fmt.Sprintf("⏱️ **Duration**: %s\n", run.Duration().Round(time.Second)))

	if len(run.Errors) > 0 {
		maxErrors := 5
		summary.WriteString("**Errors**:\n")
		for i, err := range run.Errors {
			if i >= maxErrors {
				summary.WriteString(fmt.Sprintf("... and %d more\n", len(run.Errors)-maxErrors))
				break
			}
			if len(err) > 100 {
				err = err[:97] + "..."
			}
			summary.WriteString(fmt.Sprintf("%d. %s\n", i+1, err))
		}
	}
	return summary.String()
}
