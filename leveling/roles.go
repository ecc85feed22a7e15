package leveling

import (
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// RoleChange records the mutations a reconciliation actually applied.
type RoleChange struct {
	Removed []string
	Added   []string
}

// Empty reports whether nothing was changed.
func (c RoleChange) Empty() bool {
	return len(c.Removed) == 0 && len(c.Added) == 0
}

// Reconciler keeps a member's level roles in line with the level role map.
type Reconciler struct {
	platform Platform
}

// NewReconciler creates a reconciler acting through p.
func NewReconciler(p Platform) *Reconciler {
	return &Reconciler{platform: p}
}

func (r *Reconciler) hierarchy(guildID string) (Hierarchy, bool) {
	h, err := r.platform.Hierarchy(guildID)
	if err != nil {
		log.Printf("[Roles] Failed to load role hierarchy for guild %s: %v", guildID, err)
		return Hierarchy{}, false
	}
	if !h.CanManageRoles {
		log.Printf("[Roles] Bot lacks 'Manage Roles' in guild %s, level roles cannot be updated.", guildID)
		return Hierarchy{}, false
	}
	return h, true
}

// Hierarchy loads the guild's role hierarchy once so a caller can reuse it
// for many members. ok is false when roles cannot be managed at all.
func (r *Reconciler) Hierarchy(guildID string) (h Hierarchy, ok bool) {
	return r.hierarchy(guildID)
}

// Reconcile applies the level role for newLevel to member. When
// removePrevious is set, every other mapped role the member holds is removed
// first, in one call, before the target role is added.
func (r *Reconciler) Reconcile(guildID string, member *discordgo.Member, newLevel int, levelRoles map[string]string, removePrevious bool) RoleChange {
	var change RoleChange
	h, ok := r.hierarchy(guildID)
	if !ok {
		return change
	}

	levelKey := strconv.Itoa(newLevel)
	target, hasTarget := levelRoles[levelKey]
	if !hasTarget {
		if !removePrevious {
			return change
		}
		stale := r.heldLevelRoles(h, member, levelRoles, func(level, roleID string) bool { return true })
		change.Removed = r.remove(guildID, member, stale, fmt.Sprintf("No level role for level %d, previous level roles removed", newLevel))
		return change
	}

	if err := h.Authorize(target); err != nil {
		log.Printf("[Roles] Cannot assign level %d role %s in guild %s: %v", newLevel, target, guildID, err)
		return change
	}

	if removePrevious {
		stale := r.heldLevelRoles(h, member, levelRoles, func(level, roleID string) bool {
			return level != levelKey && roleID != target
		})
		change.Removed = r.remove(guildID, member, stale, fmt.Sprintf("Previous level roles removed for level %d", newLevel))
	}

	if hasRole(member, target) {
		return change
	}
	change.Added = r.add(guildID, member, target, fmt.Sprintf("Reached level %d", newLevel))
	return change
}

// RemoveAll strips every mapped level role the member holds.
func (r *Reconciler) RemoveAll(guildID string, member *discordgo.Member, levelRoles map[string]string) RoleChange {
	h, ok := r.hierarchy(guildID)
	if !ok {
		return RoleChange{}
	}
	return r.removeAll(h, guildID, member, levelRoles)
}

func (r *Reconciler) removeAll(h Hierarchy, guildID string, member *discordgo.Member, levelRoles map[string]string) RoleChange {
	held := r.heldLevelRoles(h, member, levelRoles, func(level, roleID string) bool { return true })
	return RoleChange{Removed: r.remove(guildID, member, held, "Level reset, rank dropped or level role correction")}
}

// Correct strips all level roles and then grants the one matching level.
func (r *Reconciler) Correct(guildID string, member *discordgo.Member, level int, levelRoles map[string]string) RoleChange {
	h, ok := r.hierarchy(guildID)
	if !ok {
		return RoleChange{}
	}
	return r.CorrectWith(h, guildID, member, level, levelRoles)
}

// CorrectWith is Correct against an already loaded hierarchy.
func (r *Reconciler) CorrectWith(h Hierarchy, guildID string, member *discordgo.Member, level int, levelRoles map[string]string) RoleChange {
	change := r.removeAll(h, guildID, member, levelRoles)

	target, ok := levelRoles[strconv.Itoa(level)]
	if !ok {
		return change
	}
	if err := h.Authorize(target); err != nil {
		log.Printf("[Roles] Cannot restore level %d role %s in guild %s: %v", level, target, guildID, err)
		return change
	}
	if !hasRole(member, target) {
		change.Added = r.add(guildID, member, target, fmt.Sprintf("Level %d correction", level))
	}
	return change
}

// heldLevelRoles returns the mapped roles the member holds that match keep
// and that the bot is allowed to touch, sorted and de-duplicated.
func (r *Reconciler) heldLevelRoles(h Hierarchy, member *discordgo.Member, levelRoles map[string]string, keep func(level, roleID string) bool) []string {
	seen := make(map[string]bool)
	var out []string
	for level, roleID := range levelRoles {
		if seen[roleID] || !hasRole(member, roleID) || !keep(level, roleID) {
			continue
		}
		if err := h.Authorize(roleID); err != nil {
			log.Printf("[Roles] Skipping level role %s (%s): %v", h.RoleName(roleID), roleID, err)
			continue
		}
		seen[roleID] = true
		out = append(out, roleID)
	}
	sort.Strings(out)
	return out
}

func (r *Reconciler) remove(guildID string, member *discordgo.Member, roleIDs []string, reason string) []string {
	if len(roleIDs) == 0 {
		return nil
	}
	if err := r.platform.RemoveRoles(guildID, member, roleIDs, reason); err != nil {
		log.Printf("[Roles] Failed to remove roles %v from %s: %v", roleIDs, memberName(member), err)
		return nil
	}
	drop := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		drop[id] = true
	}
	kept := make([]string, 0, len(member.Roles))
	for _, id := range member.Roles {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	member.Roles = kept
	log.Printf("[Roles] Removed roles %v from %s (%s)", roleIDs, memberName(member), memberID(member))
	return roleIDs
}

func (r *Reconciler) add(guildID string, member *discordgo.Member, roleID, reason string) []string {
	if err := r.platform.AddRoles(guildID, member, []string{roleID}, reason); err != nil {
		log.Printf("[Roles] Failed to add role %s to %s: %v", roleID, memberName(member), err)
		return nil
	}
	member.Roles = append(member.Roles, roleID)
	log.Printf("[Roles] Added role %s to %s (%s)", roleID, memberName(member), memberID(member))
	return []string{roleID}
}
