package bot

import (
	"fmt"

	"leveling-bot/leveling"

	"github.com/bwmarrin/discordgo"
)

const membersPageSize = 1000

// Platform performs role lookups and mutations through the Discord REST API.
type Platform struct {
	session *discordgo.Session
}

func NewPlatform(s *discordgo.Session) *Platform {
	return &Platform{session: s}
}

func (p *Platform) selfID() (string, error) {
	if p.session.State == nil || p.session.State.User == nil {
		return "", fmt.Errorf("session user unknown, not connected yet")
	}
	return p.session.State.User.ID, nil
}

// Hierarchy fetches the guild's roles and the bot's own member record.
func (p *Platform) Hierarchy(guildID string) (leveling.Hierarchy, error) {
	selfID, err := p.selfID()
	if err != nil {
		return leveling.Hierarchy{}, err
	}
	roles, err := p.session.GuildRoles(guildID)
	if err != nil {
		return leveling.Hierarchy{}, fmt.Errorf("failed to fetch roles: %w", err)
	}
	self, err := p.session.GuildMember(guildID, selfID)
	if err != nil {
		return leveling.Hierarchy{}, fmt.Errorf("failed to fetch bot member: %w", err)
	}
	return leveling.BuildHierarchy(guildID, roles, self.Roles), nil
}

// RemoveRoles drops each of roleIDs from member. Only the listed roles are
// touched, so roles granted since member was fetched survive.
func (p *Platform) RemoveRoles(guildID string, member *discordgo.Member, roleIDs []string, reason string) error {
	for _, roleID := range roleIDs {
		if err := p.session.GuildMemberRoleRemove(guildID, member.User.ID, roleID, discordgo.WithAuditLogReason(reason)); err != nil {
			return fmt.Errorf("failed to remove role %s: %w", roleID, err)
		}
	}
	return nil
}

// AddRoles grants each of roleIDs to member.
func (p *Platform) AddRoles(guildID string, member *discordgo.Member, roleIDs []string, reason string) error {
	for _, roleID := range roleIDs {
		if err := p.session.GuildMemberRoleAdd(guildID, member.User.ID, roleID, discordgo.WithAuditLogReason(reason)); err != nil {
			return err
		}
	}
	return nil
}

// Members pages through the full member list of guildID.
func (p *Platform) Members(guildID string) ([]*discordgo.Member, error) {
	var all []*discordgo.Member
	after := ""
	for {
		page, err := p.session.GuildMembers(guildID, after, membersPageSize)
		if err != nil {
			return all, fmt.Errorf("failed to list members of guild %s: %w", guildID, err)
		}
		all = append(all, page...)
		if len(page) < membersPageSize {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}
