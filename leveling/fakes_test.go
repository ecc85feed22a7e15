package leveling

import (
	"context"
	"errors"
	"sort"
	"sync"

	"leveling-bot/model"

	"github.com/bwmarrin/discordgo"
)

type roleCall struct {
	Op    string
	Roles []string
}

type fakePlatform struct {
	hierarchy Hierarchy
	err       error
	removeErr error
	addErr    error
	calls     []roleCall
	lookups   int
}

func newFakePlatform(guildID string, botTop int, roles ...*discordgo.Role) *fakePlatform {
	all := append([]*discordgo.Role{{ID: guildID, Name: "@everyone"}}, roles...)
	all = append(all, &discordgo.Role{ID: "bot", Name: "Bot", Position: botTop, Permissions: discordgo.PermissionManageRoles})
	return &fakePlatform{hierarchy: BuildHierarchy(guildID, all, []string{"bot"})}
}

func (f *fakePlatform) Hierarchy(string) (Hierarchy, error) {
	f.lookups++
	return f.hierarchy, f.err
}

func (f *fakePlatform) RemoveRoles(_ string, _ *discordgo.Member, roleIDs []string, _ string) error {
	f.calls = append(f.calls, roleCall{Op: "remove", Roles: append([]string{}, roleIDs...)})
	return f.removeErr
}

func (f *fakePlatform) AddRoles(_ string, _ *discordgo.Member, roleIDs []string, _ string) error {
	f.calls = append(f.calls, roleCall{Op: "add", Roles: append([]string{}, roleIDs...)})
	return f.addErr
}

type fakeLedger struct {
	mu      sync.Mutex
	rows    map[string]model.UserProgress
	readErr error
	writes  int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]model.UserProgress)}
}

func (l *fakeLedger) key(guildID, userID string) string { return guildID + "/" + userID }

func (l *fakeLedger) Lookup(_ context.Context, guildID, userID string) (model.UserProgress, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return model.UserProgress{}, false, l.readErr
	}
	p, ok := l.rows[l.key(guildID, userID)]
	if !ok {
		return model.UserProgress{UserID: userID, GuildID: guildID}, false, nil
	}
	return p, true, nil
}

func (l *fakeLedger) Get(ctx context.Context, guildID, userID string) (model.UserProgress, error) {
	p, found, err := l.Lookup(ctx, guildID, userID)
	if err != nil || found {
		return p, err
	}
	return p, l.Upsert(ctx, p)
}

func (l *fakeLedger) Upsert(_ context.Context, p model.UserProgress) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writes++
	l.rows[l.key(p.GuildID, p.UserID)] = p
	return nil
}

func (l *fakeLedger) Rank(_ context.Context, guildID, userID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ranked []model.UserProgress
	for _, p := range l.rows {
		if p.GuildID == guildID && p.TotalXP > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalXP != ranked[j].TotalXP {
			return ranked[i].TotalXP > ranked[j].TotalXP
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	for i, p := range ranked {
		if p.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

type staticSettings struct {
	settings model.LevelingSettings
}

func (s *staticSettings) Snapshot() model.LevelingSettings { return s.settings.Clone() }

var errBoom = errors.New("boom")

func member(userID string, roles ...string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user" + userID}, Roles: roles}
}
