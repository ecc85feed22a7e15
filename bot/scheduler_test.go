package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"leveling-bot/leveling"
	"leveling-bot/model"
	"leveling-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSettings struct{ s model.LevelingSettings }

func (s stubSettings) Snapshot() model.LevelingSettings { return s.s.Clone() }

type stubPlatform struct{}

func (stubPlatform) Hierarchy(guildID string) (leveling.Hierarchy, error) {
	return leveling.Hierarchy{CanManageRoles: true, TopPosition: 10, Roles: map[string]*discordgo.Role{}}, nil
}

func (stubPlatform) RemoveRoles(string, *discordgo.Member, []string, string) error { return nil }
func (stubPlatform) AddRoles(string, *discordgo.Member, []string, string) error    { return nil }

type stubProvider struct {
	cfg       *model.Config
	settings  model.LevelingSettings
	engine    *leveling.Engine
	cooldowns *utils.CommandCooldowns
	members   map[string][]*discordgo.Member
}

func newStubProvider() *stubProvider {
	settings := model.DefaultLevelingSettings()
	return &stubProvider{
		cfg:       &model.Config{},
		settings:  settings,
		engine:    leveling.NewEngine(nil, leveling.NewReconciler(stubPlatform{}), stubSettings{settings}, leveling.NewCooldowns(), "!"),
		cooldowns: utils.NewCommandCooldowns(),
		members:   map[string][]*discordgo.Member{},
	}
}

func (p *stubProvider) GetConfig() *model.Config                    { return p.cfg }
func (p *stubProvider) GetSession() *discordgo.Session              { return nil }
func (p *stubProvider) GetSettings() model.LevelingSettings         { return p.settings }
func (p *stubProvider) GetEngine() *leveling.Engine                 { return p.engine }
func (p *stubProvider) GetCommandCooldowns() *utils.CommandCooldowns { return p.cooldowns }

func (p *stubProvider) GuildMembers(guildID string) ([]*discordgo.Member, error) {
	members, ok := p.members[guildID]
	if !ok {
		return nil, errors.New("unknown guild " + guildID)
	}
	return members, nil
}

func TestCleanupCooldowns(t *testing.T) {
	p := newStubProvider()
	start := time.Unix(1000, 0)
	p.engine.Cooldowns().TryAcquire("g", "old", start, time.Minute)
	p.engine.Cooldowns().TryAcquire("g", "fresh", start.Add(90*time.Second), time.Minute)
	p.cooldowns.Acquire(utils.CooldownKey("level", "old"), 5*time.Second, start)
	p.cooldowns.Acquire(utils.CooldownKey("level", "fresh"), time.Hour, start)

	s := NewScheduler(p)
	s.now = func() time.Time { return start.Add(2 * time.Minute) }

	messages, commands := s.cleanupCooldowns()
	assert.Equal(t, 1, messages)
	assert.Equal(t, 1, commands)
	_, ok := p.engine.Cooldowns().Last("g", "fresh")
	assert.True(t, ok)
}

func TestRunStartupCorrectionCollectsReports(t *testing.T) {
	p := newStubProvider()
	p.members["a"] = []*discordgo.Member{{User: &discordgo.User{ID: "1"}}}
	p.members["b"] = nil

	s := NewScheduler(p)
	run := s.runStartupCorrection([]string{"a", "b", "missing"})

	require.Len(t, run.Reports, 2)
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "missing")
	_, _, skipped := run.Totals()
	// Without a ledger every guild is skipped.
	assert.Equal(t, 2, skipped)
	assert.False(t, run.EndTime.Before(run.StartTime))
}

func TestStartCorrectionDisabled(t *testing.T) {
	p := newStubProvider()
	p.cfg.DisableStartupCorrection = true
	s := NewScheduler(p)
	s.StartCorrection([]string{"a"})
	s.Stop()
	// The once guard was never consumed.
	ran := true
	s.correctionOnce.Do(func() { ran = false })
	assert.False(t, ran)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := NewScheduler(newStubProvider())
	s.Start()
	s.Stop()
	s.Stop()
	assert.Error(t, s.ctx.Err())
}

func TestBuildCorrectionSummary(t *testing.T) {
	run := &CorrectionRun{
		Reports: []leveling.CorrectionReport{
			{GuildID: "a", Checked: 10, Changed: 3},
			{GuildID: "b", Skipped: true},
		},
		StartTime: time.Unix(0, 0),
		EndTime:   time.Unix(65, 0),
	}
	for i := 0; i < 7; i++ {
		run.Errors = append(run.Errors, strings.Repeat("x", 150))
	}

	summary := buildCorrectionSummary(run)
	assert.Contains(t, summary, "**Guilds**: 2 (1 skipped)")
	assert.Contains(t, summary, "**Members checked**: 10")
	assert.Contains(t, summary, "**Members changed**: 3")
	assert.Contains(t, summary, "1m5s")
	assert.Contains(t, summary, "... and 2 more")
	assert.NotContains(t, summary, strings.Repeat("x", 98))
}
