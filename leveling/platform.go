package leveling

import (
	"github.com/bwmarrin/discordgo"
)

// Hierarchy is the bot's view of one guild's roles at a point in time.
type Hierarchy struct {
	CanManageRoles bool
	TopPosition    int
	Roles          map[string]*discordgo.Role
}

// Authorize is the single check consulted before any level role mutation.
// A nil result means the bot can add or remove roleID.
func (h Hierarchy) Authorize(roleID string) error {
	if !h.CanManageRoles {
		return ErrMissingManageRoles
	}
	role, ok := h.Roles[roleID]
	if !ok {
		return ErrRoleNotFound
	}
	if role.Position >= h.TopPosition {
		return ErrRoleAboveBot
	}
	return nil
}

// RoleName returns a printable name for roleID.
func (h Hierarchy) RoleName(roleID string) string {
	if role, ok := h.Roles[roleID]; ok {
		return role.Name
	}
	return roleID
}

// Platform is the subset of the chat client the leveling engine needs.
type Platform interface {
	Hierarchy(guildID string) (Hierarchy, error)
	RemoveRoles(guildID string, member *discordgo.Member, roleIDs []string, reason string) error
	AddRoles(guildID string, member *discordgo.Member, roleIDs []string, reason string) error
}

// BuildHierarchy derives a Hierarchy from a guild's roles and the roles the bot holds.
func BuildHierarchy(guildID string, roles []*discordgo.Role, botRoleIDs []string) Hierarchy {
	h := Hierarchy{Roles: make(map[string]*discordgo.Role, len(roles))}
	held := make(map[string]bool, len(botRoleIDs))
	for _, id := range botRoleIDs {
		held[id] = true
	}
	for _, role := range roles {
		h.Roles[role.ID] = role
		// @everyone shares the guild id and is implicitly held.
		if !held[role.ID] && role.ID != guildID {
			continue
		}
		if role.Permissions&(discordgo.PermissionManageRoles|discordgo.PermissionAdministrator) != 0 {
			h.CanManageRoles = true
		}
		if held[role.ID] && role.Position > h.TopPosition {
			h.TopPosition = role.Position
		}
	}
	return h
}

func hasRole(member *discordgo.Member, roleID string) bool {
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

func memberName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		if member.User.GlobalName != "" {
			return member.User.GlobalName
		}
		return member.User.Username
	}
	return "unknown member"
}

func memberID(member *discordgo.Member) string {
	if member.User != nil {
		return member.User.ID
	}
	return ""
}
