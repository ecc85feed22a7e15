package xp

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"leveling-bot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// LedgerStats is the database part of /xp-status.
type LedgerStats struct {
	Available bool
	Tracked   int
	Ranked    int
	SizeBytes int64
}

// HandleXPStatus answers /xp-status.
func HandleXPStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	var stats LedgerStats
	if b.Ledger != nil {
		stats = collectLedgerStats(b.Ledger, i.GuildID)
	}
	embed := BuildStatusEmbed(stats, b.GetSettings().LevelRoles)

	var hostFields []*discordgo.MessageEmbedField
	if hostInfo != nil {
		hostFields = append(hostFields,
			&discordgo.MessageEmbedField{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			&discordgo.MessageEmbedField{Name: "🔧 Kernel", Value: hostInfo.KernelVersion, Inline: true},
		)
	}
	hostFields = append(hostFields,
		&discordgo.MessageEmbedField{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
		&discordgo.MessageEmbedField{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
	)
	if len(cpuPercent) > 0 {
		hostFields = append(hostFields, &discordgo.MessageEmbedField{Name: "🔥 CPU Usage", Value: fmt.Sprintf("%.1f%%", cpuPercent[0]), Inline: true})
	}
	if vm != nil {
		hostFields = append(hostFields, &discordgo.MessageEmbedField{
			Name:   "🧠 Memory",
			Value:  fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024),
			Inline: true,
		})
	}
	hostFields = append(hostFields,
		&discordgo.MessageEmbedField{Name: "⏱️ Gateway Latency", Value: s.HeartbeatLatency().String(), Inline: true},
		&discordgo.MessageEmbedField{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
	)
	embed.Fields = append(embed.Fields, hostFields...)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Status at %s", time.Now().Format("15:04"))}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending status response: %v", err)
	}
}

// ledgerCounter is the part of the ledger /xp-status reads.
type ledgerCounter interface {
	CountTracked(ctx context.Context) (int, error)
	CountRanked(ctx context.Context, guildID string) (int, error)
	SizeBytes() (int64, error)
}

// collectLedgerStats reads the ledger figures. Any failure marks the
// database unavailable rather than reporting zeros.
func collectLedgerStats(ledger ledgerCounter, guildID string) LedgerStats {
	ctx := context.Background()
	var (
		stats LedgerStats
		err   error
	)
	if stats.Tracked, err = ledger.CountTracked(ctx); err != nil {
		log.Printf("[Leveling] /xp-status: %v", err)
		return LedgerStats{}
	}
	if stats.Ranked, err = ledger.CountRanked(ctx, guildID); err != nil {
		log.Printf("[Leveling] /xp-status: %v", err)
		return LedgerStats{}
	}
	if stats.SizeBytes, err = ledger.SizeBytes(); err != nil {
		log.Printf("[Leveling] /xp-status: failed to stat ledger file: %v", err)
		return LedgerStats{}
	}
	stats.Available = true
	return stats
}

// BuildStatusEmbed renders the leveling half of the status embed.
func BuildStatusEmbed(stats LedgerStats, levelRoles map[string]string) *discordgo.MessageEmbed {
	database := "🔴 Unavailable"
	tracked, ranked, size := "-", "-", "-"
	if stats.Available {
		database = "🟢 Connected"
		tracked = fmt.Sprintf("%d", stats.Tracked)
		ranked = fmt.Sprintf("%d", stats.Ranked)
		size = fmt.Sprintf("%.2f MB", float64(stats.SizeBytes)/1024/1024)
	}
	return &discordgo.MessageEmbed{
		Title: "Leveling Status",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🗃️ Database", Value: database, Inline: true},
			{Name: "📦 Database Size", Value: size, Inline: true},
			{Name: "👥 Tracked Members", Value: tracked, Inline: true},
			{Name: "🏆 Ranked Here", Value: ranked, Inline: true},
			{Name: "🎖️ Level Roles", Value: fmt.Sprintf("%d", len(levelRoles)), Inline: true},
		},
	}
}
