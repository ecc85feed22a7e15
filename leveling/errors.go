package leveling

import "errors"

var (
	// ErrNoDatabase is returned when the engine runs without a ledger.
	ErrNoDatabase = errors.New("leveling database is not available")

	ErrMissingManageRoles = errors.New("bot lacks the Manage Roles permission")
	ErrRoleNotFound       = errors.New("role not found in guild")
	ErrRoleAboveBot       = errors.New("role is at or above the bot's highest role")
)
