package leveling

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelRoleFixture() *fakePlatform {
	return newFakePlatform("g", 10,
		&discordgo.Role{ID: "R0", Name: "Newcomer", Position: 1},
		&discordgo.Role{ID: "R2", Name: "Regular", Position: 2},
		&discordgo.Role{ID: "R5", Name: "Veteran", Position: 3},
		&discordgo.Role{ID: "HIGH", Name: "Staff", Position: 20},
	)
}

func TestReconcileSwapsPreviousRole(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u", "R0", "other")

	change := r.Reconcile("g", m, 2, map[string]string{"0": "R0", "2": "R2"}, true)

	require.Equal(t, []roleCall{
		{Op: "remove", Roles: []string{"R0"}},
		{Op: "add", Roles: []string{"R2"}},
	}, p.calls)
	assert.Equal(t, []string{"R0"}, change.Removed)
	assert.Equal(t, []string{"R2"}, change.Added)
	assert.ElementsMatch(t, []string{"other", "R2"}, m.Roles)
}

func TestReconcileIsIdempotent(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u", "R0")
	roles := map[string]string{"0": "R0", "2": "R2", "5": "R5"}

	r.Reconcile("g", m, 2, roles, true)
	first := len(p.calls)
	require.NotZero(t, first)

	change := r.Reconcile("g", m, 2, roles, true)
	assert.True(t, change.Empty())
	assert.Len(t, p.calls, first)
}

func TestReconcileKeepsPreviousWhenDisabled(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u", "R0")

	r.Reconcile("g", m, 2, map[string]string{"0": "R0", "2": "R2"}, false)

	assert.Equal(t, []roleCall{{Op: "add", Roles: []string{"R2"}}}, p.calls)
	assert.ElementsMatch(t, []string{"R0", "R2"}, m.Roles)
}

func TestReconcileWithoutTargetStripsMappedRoles(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u", "R2", "R0", "other")

	change := r.Reconcile("g", m, 3, map[string]string{"0": "R0", "2": "R2"}, true)

	assert.Equal(t, []roleCall{{Op: "remove", Roles: []string{"R0", "R2"}}}, p.calls)
	assert.Equal(t, []string{"R0", "R2"}, change.Removed)
	assert.Equal(t, []string{"other"}, m.Roles)
}

func TestReconcileSkipsRoleAboveBot(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u", "R0")

	change := r.Reconcile("g", m, 5, map[string]string{"0": "R0", "5": "HIGH"}, true)

	assert.True(t, change.Empty())
	assert.Empty(t, p.calls)
	assert.Equal(t, []string{"R0"}, m.Roles)
}

func TestReconcileSkipsUnknownTarget(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u")

	change := r.Reconcile("g", m, 1, map[string]string{"1": "deleted"}, true)

	assert.True(t, change.Empty())
	assert.Empty(t, p.calls)
}

func TestReconcileWithoutManageRolesDoesNothing(t *testing.T) {
	p := &fakePlatform{hierarchy: BuildHierarchy("g", []*discordgo.Role{
		{ID: "g", Name: "@everyone"},
		{ID: "bot", Position: 5},
		{ID: "R0", Position: 1},
		{ID: "R2", Position: 2},
	}, []string{"bot"})}
	r := NewReconciler(p)
	m := member("u", "R0")

	_, ok := r.Hierarchy("g")
	assert.False(t, ok)
	assert.True(t, r.Reconcile("g", m, 2, map[string]string{"0": "R0", "2": "R2"}, true).Empty())
	assert.True(t, r.RemoveAll("g", m, map[string]string{"0": "R0"}).Empty())
	assert.Empty(t, p.calls)
}

func TestReconcileHierarchyErrorDoesNothing(t *testing.T) {
	p := levelRoleFixture()
	p.err = errBoom
	r := NewReconciler(p)

	assert.True(t, r.Reconcile("g", member("u"), 2, map[string]string{"2": "R2"}, true).Empty())
	assert.Empty(t, p.calls)
}

func TestReconcileRemoveFailureStillAdds(t *testing.T) {
	p := levelRoleFixture()
	p.removeErr = errBoom
	r := NewReconciler(p)
	m := member("u", "R0")

	change := r.Reconcile("g", m, 2, map[string]string{"0": "R0", "2": "R2"}, true)

	assert.Empty(t, change.Removed)
	assert.Equal(t, []string{"R2"}, change.Added)
	assert.ElementsMatch(t, []string{"R0", "R2"}, m.Roles)
}

func TestRemoveAllSkipsUnmanageable(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u", "R0", "HIGH", "R5")

	change := r.RemoveAll("g", m, map[string]string{"0": "R0", "5": "R5", "9": "HIGH"})

	assert.Equal(t, []string{"R0", "R5"}, change.Removed)
	assert.Equal(t, []string{"HIGH"}, m.Roles)
}

func TestCorrectResetsToLevelRole(t *testing.T) {
	p := levelRoleFixture()
	r := NewReconciler(p)
	m := member("u", "R5", "other")

	change := r.Correct("g", m, 2, map[string]string{"0": "R0", "2": "R2", "5": "R5"})

	require.Equal(t, []roleCall{
		{Op: "remove", Roles: []string{"R5"}},
		{Op: "add", Roles: []string{"R2"}},
	}, p.calls)
	assert.Equal(t, []string{"R5"}, change.Removed)
	assert.ElementsMatch(t, []string{"other", "R2"}, m.Roles)
}

func TestBuildHierarchy(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "g", Name: "@everyone", Position: 0},
		{ID: "low", Position: 2},
		{ID: "top", Position: 7},
		{ID: "admin", Position: 4, Permissions: discordgo.PermissionAdministrator},
	}

	h := BuildHierarchy("g", roles, []string{"low", "admin"})
	assert.True(t, h.CanManageRoles)
	assert.Equal(t, 4, h.TopPosition)
	assert.NoError(t, h.Authorize("low"))
	assert.ErrorIs(t, h.Authorize("top"), ErrRoleAboveBot)
	assert.ErrorIs(t, h.Authorize("admin"), ErrRoleAboveBot)
	assert.ErrorIs(t, h.Authorize("gone"), ErrRoleNotFound)
	assert.Equal(t, "gone", h.RoleName("gone"))

	everyone := BuildHierarchy("g", []*discordgo.Role{
		{ID: "g", Permissions: discordgo.PermissionManageRoles},
		{ID: "bot", Position: 3},
		{ID: "x", Position: 1},
	}, []string{"bot"})
	assert.True(t, everyone.CanManageRoles)
	assert.NoError(t, everyone.Authorize("x"))

	none := BuildHierarchy("g", roles, []string{"low"})
	assert.False(t, none.CanManageRoles)
	assert.ErrorIs(t, none.Authorize("low"), ErrMissingManageRoles)
}
