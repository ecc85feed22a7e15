package utils

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandCooldowns(t *testing.T) {
	c := NewCommandCooldowns()
	now := time.Unix(1000, 0)
	key := CooldownKey("level", "42")
	assert.Equal(t, "level:42", key)

	assert.Zero(t, c.Acquire(key, 5*time.Second, now))
	assert.Equal(t, 3*time.Second, c.Acquire(key, 5*time.Second, now.Add(2*time.Second)))
	assert.Zero(t, c.Acquire(CooldownKey("level", "43"), 5*time.Second, now))
	assert.Zero(t, c.Acquire(key, 5*time.Second, now.Add(5*time.Second)))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.Prune(now.Add(6*time.Second)))
	assert.Equal(t, 1, c.Len())
}

func TestCheckPermission(t *testing.T) {
	dev := &discordgo.Member{User: &discordgo.User{ID: "1"}}
	admin := &discordgo.Member{User: &discordgo.User{ID: "2"}, Permissions: discordgo.PermissionManageGuild}
	owner := &discordgo.Member{User: &discordgo.User{ID: "3"}, Permissions: discordgo.PermissionAdministrator}
	guest := &discordgo.Member{User: &discordgo.User{ID: "4"}, Permissions: discordgo.PermissionSendMessages}

	devs := []string{"1"}
	assert.Equal(t, DeveloperPermission, CheckPermission(dev, devs))
	assert.Equal(t, AdminPermission, CheckPermission(admin, devs))
	assert.Equal(t, AdminPermission, CheckPermission(owner, devs))
	assert.Equal(t, GuestPermission, CheckPermission(guest, devs))
	assert.Equal(t, GuestPermission, CheckPermission(nil, devs))

	assert.True(t, IsAdmin(DeveloperPermission))
	assert.True(t, IsAdmin(AdminPermission))
	assert.False(t, IsAdmin(GuestPermission))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))

	assert.Equal(t, 1, ClampPage(-3, 4))
	assert.Equal(t, 4, ClampPage(9, 4))
	assert.Equal(t, 2, ClampPage(2, 4))

	assert.Nil(t, CreatePaginationComponents(1, 1, "lb"))

	components := CreatePaginationComponents(1, 3, "lb", "guild")
	require.Len(t, components, 1)
	row := components[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	prev := row.Components[0].(discordgo.Button)
	next := row.Components[1].(discordgo.Button)
	assert.True(t, prev.Disabled)
	assert.False(t, next.Disabled)
	assert.Equal(t, "lb:2:guild", next.CustomID)

	page, args, err := ParsePaginationID(next.CustomID, "lb")
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, []string{"guild"}, args)

	_, _, err = ParsePaginationID("other:1", "lb")
	assert.Error(t, err)
	_, _, err = ParsePaginationID("lb:x", "lb")
	assert.Error(t, err)
}

func TestReactionConfirmationConfirm(t *testing.T) {
	c := NewReactionConfirmations()
	p := c.Register("msg", "user")

	assert.False(t, c.Resolve("msg", "someone-else", ConfirmEmoji))
	assert.False(t, c.Resolve("msg", "user", "👍"))
	assert.False(t, c.Resolve("other-msg", "user", ConfirmEmoji))
	assert.True(t, c.Resolve("msg", "user", ConfirmEmoji))
	assert.False(t, c.Resolve("msg", "user", CancelEmoji))

	confirmed, answered := p.Wait(context.Background(), time.Second)
	assert.True(t, answered)
	assert.True(t, confirmed)
	assert.Zero(t, c.Len())
}

func TestReactionConfirmationCancel(t *testing.T) {
	c := NewReactionConfirmations()
	p := c.Register("msg", "user")
	go c.Resolve("msg", "user", CancelEmoji)

	confirmed, answered := p.Wait(context.Background(), 5*time.Second)
	assert.True(t, answered)
	assert.False(t, confirmed)
}

func TestReactionConfirmationTimeout(t *testing.T) {
	c := NewReactionConfirmations()
	p := c.Register("msg", "user")

	confirmed, answered := p.Wait(context.Background(), 10*time.Millisecond)
	assert.False(t, answered)
	assert.False(t, confirmed)
	assert.Zero(t, c.Len())
	assert.False(t, c.Resolve("msg", "user", ConfirmEmoji))
}

func TestBuildLogEmbed(t *testing.T) {
	embed := BuildLogEmbed(Warn, "Leveling", "XP reset", "")
	assert.Equal(t, "WARN Log", embed.Title)
	assert.Equal(t, 15105570, embed.Color)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "-", embed.Fields[2].Value)

	long := BuildLogEmbed(Info, "m", "o", string(make([]byte, 2000)))
	assert.Len(t, long.Fields[2].Value, 1024)
}

func TestLogWithoutChannelIsNoop(t *testing.T) {
	assert.NoError(t, LogInfo(nil, "", "m", "o", "i"))
	assert.NoError(t, LogError(&discordgo.Session{}, "", "m", "o", "i"))
}
