package levels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"leveling-bot/model"
)

// rankOrder is shared by every ranking query. Equal totals put the
// numerically lower user id first.
const rankOrder = `ORDER BY total_xp DESC, CAST(user_id AS INTEGER) ASC`

// Lookup returns the progress row for a user without creating one.
func (s *Store) Lookup(ctx context.Context, guildID, userID string) (model.UserProgress, bool, error) {
	var p model.UserProgress
	err := s.db.GetContext(ctx, &p,
		`SELECT user_id, guild_id, COALESCE(level, 0) AS level, COALESCE(xp, 0) AS xp, COALESCE(total_xp, 0) AS total_xp
		 FROM users WHERE user_id = ? AND guild_id = ?`, userID, guildID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserProgress{UserID: userID, GuildID: guildID}, false, nil
	}
	if err != nil {
		return model.UserProgress{}, false, fmt.Errorf("failed to get progress for user %s in guild %s: %w", userID, guildID, err)
	}
	return p, true, nil
}

// Get returns the progress row for a user, creating a zero row if absent.
func (s *Store) Get(ctx context.Context, guildID, userID string) (model.UserProgress, error) {
	p, found, err := s.Lookup(ctx, guildID, userID)
	if err != nil || found {
		return p, err
	}
	if err := s.Upsert(ctx, p); err != nil {
		return model.UserProgress{}, err
	}
	return p, nil
}

// Upsert writes the row keyed by (user_id, guild_id).
func (s *Store) Upsert(ctx context.Context, p model.UserProgress) error {
	query := `INSERT INTO users (user_id, guild_id, level, xp, total_xp)
			  VALUES (:user_id, :guild_id, :level, :xp, :total_xp)
			  ON CONFLICT(user_id, guild_id) DO UPDATE SET
				level = excluded.level,
				xp = excluded.xp,
				total_xp = excluded.total_xp`
	if _, err := s.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to upsert progress for user %s in guild %s: %w", p.UserID, p.GuildID, err)
	}
	return nil
}

// Reset sets all counters for a user back to zero.
func (s *Store) Reset(ctx context.Context, guildID, userID string) error {
	return s.Upsert(ctx, model.UserProgress{UserID: userID, GuildID: guildID})
}

// Rank returns the 1-based position of userID among users with positive
// total XP in guildID, or 0 when the user is unranked.
func (s *Store) Rank(ctx context.Context, guildID, userID string) (int, error) {
	var ids []string
	query := `SELECT user_id FROM users WHERE guild_id = ? AND total_xp > 0 ` + rankOrder
	if err := s.db.SelectContext(ctx, &ids, query, guildID); err != nil {
		return 0, fmt.Errorf("failed to rank guild %s: %w", guildID, err)
	}
	for i, id := range ids {
		if id == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Top returns one page of the guild ranking.
func (s *Store) Top(ctx context.Context, guildID string, limit, offset int) ([]model.RankedUser, error) {
	var rows []model.RankedUser
	query := `SELECT user_id, level, total_xp FROM users WHERE guild_id = ? AND total_xp > 0 ` + rankOrder + ` LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &rows, query, guildID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for guild %s: %w", guildID, err)
	}
	for i := range rows {
		rows[i].Rank = offset + i + 1
	}
	return rows, nil
}

// CountRanked returns how many users in guildID have positive total XP.
func (s *Store) CountRanked(ctx context.Context, guildID string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE guild_id = ? AND total_xp > 0`, guildID); err != nil {
		return 0, fmt.Errorf("failed to count ranked users for guild %s: %w", guildID, err)
	}
	return count, nil
}

// CountTracked returns the number of ledger rows across all guilds.
func (s *Store) CountTracked(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count tracked users: %w", err)
	}
	return count, nil
}
