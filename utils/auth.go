package utils

import "github.com/bwmarrin/discordgo"

// Permission levels
const (
	DeveloperPermission = "developer"
	AdminPermission     = "admin"
	GuestPermission     = "guest"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level of the invoking member.
// Admins are members whose resolved permissions include Manage Server.
func CheckPermission(member *discordgo.Member, developerUserIDs []string) string {
	if member == nil {
		return GuestPermission
	}
	if member.User != nil && contains(developerUserIDs, member.User.ID) {
		return DeveloperPermission
	}
	if member.Permissions&(discordgo.PermissionManageGuild|discordgo.PermissionAdministrator) != 0 {
		return AdminPermission
	}
	return GuestPermission
}

// IsAdmin reports whether level may run administrative commands.
func IsAdmin(level string) bool {
	return level == AdminPermission || level == DeveloperPermission
}
