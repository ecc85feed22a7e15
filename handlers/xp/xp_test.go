package xp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"leveling-bot/leveling"
	"leveling-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	cases := []struct {
		xp, needed int
		filled     int
	}{
		{0, 100, 0},
		{50, 100, 10},
		{99, 100, 19},
		{100, 100, 20},
		{250, 100, 20},
		{-5, 100, 0},
		{10, 0, 0},
	}
	for _, c := range cases {
		bar := ProgressBar(c.xp, c.needed)
		assert.True(t, strings.HasPrefix(bar, "[") && strings.HasSuffix(bar, "]"), bar)
		assert.Equal(t, c.filled, strings.Count(bar, "="), "xp=%d needed=%d", c.xp, c.needed)
		assert.Equal(t, progressBarWidth-c.filled, strings.Count(bar, "─"), "xp=%d needed=%d", c.xp, c.needed)
	}
}

func fieldValue(t *testing.T, embed *discordgo.MessageEmbed, name string) string {
	t.Helper()
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("field %q not found", name)
	return ""
}

func TestBuildLevelEmbed(t *testing.T) {
	embed := BuildLevelEmbed(LevelCard{
		Name:     "alice",
		Progress: model.UserProgress{Level: 2, XP: 60, TotalXP: 315},
		Rank:     3,
		TopRole:  &discordgo.Role{Name: "Regular", Color: 0xFF0000},
		Boost:    1.5,
	})

	assert.Equal(t, "alice's Level", embed.Title)
	assert.Equal(t, 0xFF0000, embed.Color)
	assert.Equal(t, "**2**", fieldValue(t, embed, "Level"))
	assert.Equal(t, "**60 / 220**", fieldValue(t, embed, "XP"))
	assert.Equal(t, "**#3**", fieldValue(t, embed, "Rank"))
	assert.Equal(t, "Regular", fieldValue(t, embed, "Top Role"))
	assert.Equal(t, "**x1.50**", fieldValue(t, embed, "XP Multiplier"))
	assert.Contains(t, fieldValue(t, embed, "Progress to Level 3"), "[")
	assert.Equal(t, "Total XP earned: 315", embed.Footer.Text)
	assert.Nil(t, embed.Thumbnail)
}

func TestBuildLevelEmbedUnranked(t *testing.T) {
	embed := BuildLevelEmbed(LevelCard{Name: "bob", Boost: 1, AvatarURL: "https://cdn/avatar.png"})

	assert.Equal(t, defaultEmbedColor, embed.Color)
	assert.Equal(t, "N/A", fieldValue(t, embed, "Rank"))
	assert.Equal(t, "None", fieldValue(t, embed, "Top Role"))
	assert.Equal(t, "**0 / 100**", fieldValue(t, embed, "XP"))
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, "https://cdn/avatar.png", embed.Thumbnail.URL)

	uncolored := BuildLevelEmbed(LevelCard{Name: "c", TopRole: &discordgo.Role{Name: "Plain"}})
	assert.Equal(t, defaultEmbedColor, uncolored.Color)
}

func TestHighestRole(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "g", Name: "@everyone", Position: 0},
		{ID: "a", Name: "A", Position: 3},
		{ID: "b", Name: "B", Position: 7},
		{ID: "c", Name: "C", Position: 9},
	}
	member := &discordgo.Member{Roles: []string{"a", "b", "gone"}}
	top := highestRole(member, roles, "g")
	require.NotNil(t, top)
	assert.Equal(t, "B", top.Name)

	assert.Nil(t, highestRole(&discordgo.Member{Roles: []string{"g"}}, roles, "g"))
}

func TestBuildLeaderboardEmbed(t *testing.T) {
	rows := []model.RankedUser{
		{Rank: 11, UserID: "1", Level: 5, TotalXP: 1200},
		{Rank: 12, UserID: "2", Level: 4, TotalXP: 900},
	}
	embed := BuildLeaderboardEmbed("Guild", rows, map[string]string{"1": "alice"}, 2, 3, 25)

	assert.Equal(t, "🏆 Guild Leaderboard (Total XP)", embed.Title)
	assert.Contains(t, embed.Description, "**11.** alice - Level: 5 (Total XP: 1200)")
	assert.Contains(t, embed.Description, "**12.** Departed member (ID: 2) - Level: 4 (Total XP: 900)")
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Page 2/3 | Ranked members: 25", embed.Footer.Text)
}

func TestBuildLeaderboardEmbedEmpty(t *testing.T) {
	embed := BuildLeaderboardEmbed("Guild", nil, nil, 1, 1, 0)
	assert.Equal(t, "Nobody on this server has earned XP yet.", embed.Description)
	assert.Nil(t, embed.Footer)
}

func TestSubcommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "set",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "level", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(5)},
			},
		}},
	}
	name, opts := subcommand(data)
	assert.Equal(t, "set", name)
	level, ok := opts.int("level")
	assert.True(t, ok)
	assert.Equal(t, 5, level)

	_, ok = opts.int("missing")
	assert.False(t, ok)

	name, opts = subcommand(discordgo.ApplicationCommandInteractionData{})
	assert.Empty(t, name)
	assert.Empty(t, opts)
}

func TestMentionableTarget(t *testing.T) {
	opt := &discordgo.ApplicationCommandInteractionDataOption{Name: "target", Type: discordgo.ApplicationCommandOptionMentionable, Value: "42"}

	id, kind := mentionableTarget(discordgo.ApplicationCommandInteractionData{
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{Roles: map[string]*discordgo.Role{"42": {ID: "42"}}},
	}, opt)
	assert.Equal(t, "42", id)
	assert.Equal(t, "role", kind)
	assert.Equal(t, "<@&42>", mention(id, kind))

	id, kind = mentionableTarget(discordgo.ApplicationCommandInteractionData{}, opt)
	assert.Equal(t, "member", kind)
	assert.Equal(t, "<@42>", mention(id, kind))
}

func TestRemovalMessage(t *testing.T) {
	msg := removalMessage("7", 50, leveling.GrantResult{OldLevel: 3, NewLevel: 2})
	assert.Contains(t, msg, "Removed **50 XP** from <@7>")
	assert.Contains(t, msg, "dropped from level 3")

	msg = removalMessage("7", 5, leveling.GrantResult{OldLevel: 2, NewLevel: 2})
	assert.NotContains(t, msg, "dropped")
}

func TestSortedLevels(t *testing.T) {
	got := sortedLevels(map[string]string{"10": "a", "2": "b", "0": "c", "x": "d"})
	assert.Equal(t, []string{"0", "2", "10", "x"}, got)
}

func TestBuildLevelRolesEmbed(t *testing.T) {
	embed := BuildLevelRolesEmbed(map[string]string{"10": "100", "2": "200"})
	assert.Equal(t, "Level **2** → <@&200>\nLevel **10** → <@&100>\n", embed.Description)

	assert.Equal(t, "No level roles are configured.", BuildLevelRolesEmbed(nil).Description)
}

func TestBuildSettingsEmbed(t *testing.T) {
	st := model.DefaultLevelingSettings()
	embed := BuildSettingsEmbed(st)
	assert.Equal(t, "15 - 25", fieldValue(t, embed, "XP Range"))
	assert.Equal(t, "60s", fieldValue(t, embed, "Cooldown"))
	assert.Equal(t, "Disabled", fieldValue(t, embed, "Rank Threshold"))
	assert.Equal(t, "None", fieldValue(t, embed, "Blacklisted Channels"))
	assert.Equal(t, "None", fieldValue(t, embed, "XP Boosts"))

	threshold := 10
	st.RankThreshold = &threshold
	st.BlacklistedChannels = []string{"1", "2"}
	st.XPBoosts = map[string]float64{"9": 2, "3": 1.25}
	embed = BuildSettingsEmbed(st)
	assert.Equal(t, "Top 10", fieldValue(t, embed, "Rank Threshold"))
	assert.Equal(t, "<#1>, <#2>", fieldValue(t, embed, "Blacklisted Channels"))
	assert.Equal(t, "`3` x1.25\n`9` x2.00", fieldValue(t, embed, "XP Boosts"))
}

func TestBuildStatusEmbed(t *testing.T) {
	down := BuildStatusEmbed(LedgerStats{}, nil)
	assert.Equal(t, "🔴 Unavailable", fieldValue(t, down, "🗃️ Database"))
	assert.Equal(t, "-", fieldValue(t, down, "👥 Tracked Members"))

	up := BuildStatusEmbed(LedgerStats{Available: true, Tracked: 12, Ranked: 4, SizeBytes: 2 * 1024 * 1024}, map[string]string{"1": "r"})
	assert.Equal(t, "🟢 Connected", fieldValue(t, up, "🗃️ Database"))
	assert.Equal(t, "12", fieldValue(t, up, "👥 Tracked Members"))
	assert.Equal(t, "4", fieldValue(t, up, "🏆 Ranked Here"))
	assert.Equal(t, "2.00 MB", fieldValue(t, up, "📦 Database Size"))
	assert.Equal(t, "1", fieldValue(t, up, "🎖️ Level Roles"))
}

func TestLevelUpMessage(t *testing.T) {
	assert.Equal(t, "🎉 Congratulations <@5>, you reached **level 3**!", LevelUpMessage("5", 3))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Channel is already blacklisted", capitalize("channel is already blacklisted"))
	assert.Equal(t, "", capitalize(""))
}

type stubCounter struct {
	tracked, ranked int
	size            int64
	rankErr         error
	sizeErr         error
}

func (c stubCounter) CountTracked(context.Context) (int, error) { return c.tracked, nil }
func (c stubCounter) CountRanked(context.Context, string) (int, error) {
	return c.ranked, c.rankErr
}
func (c stubCounter) SizeBytes() (int64, error) { return c.size, c.sizeErr }

func TestCollectLedgerStats(t *testing.T) {
	stats := collectLedgerStats(stubCounter{tracked: 9, ranked: 3, size: 4096}, "g")
	assert.Equal(t, LedgerStats{Available: true, Tracked: 9, Ranked: 3, SizeBytes: 4096}, stats)
}

func TestCollectLedgerStatsFailureIsUnavailable(t *testing.T) {
	stats := collectLedgerStats(stubCounter{tracked: 9, rankErr: errors.New("disk I/O error")}, "g")
	assert.False(t, stats.Available)
	assert.Equal(t, "🔴 Unavailable", fieldValue(t, BuildStatusEmbed(stats, nil), "🗃️ Database"))

	stats = collectLedgerStats(stubCounter{sizeErr: errors.New("stat failed")}, "g")
	assert.False(t, stats.Available)
}
