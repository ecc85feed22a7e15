package model

// UserProgress is one row of the XP ledger.
// The table is named 'users' and keyed by (user_id, guild_id).
type UserProgress struct {
	UserID  string `db:"user_id"`
	GuildID string `db:"guild_id"`
	Level   int    `db:"level"`
	XP      int    `db:"xp"` // progress inside the current level
	TotalXP int    `db:"total_xp"`
}

// RankedUser is a leaderboard row.
type RankedUser struct {
	Rank    int    `db:"-"`
	UserID  string `db:"user_id"`
	Level   int    `db:"level"`
	TotalXP int    `db:"total_xp"`
}
