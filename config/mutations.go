package config

import (
	"errors"
	"fmt"
	"strconv"

	"leveling-bot/model"
)

var (
	ErrInvalidRange       = errors.New("XP values must be positive and min must not exceed max")
	ErrInvalidCooldown    = errors.New("cooldown must not be negative")
	ErrInvalidMultiplier  = errors.New("multiplier must be positive")
	ErrInvalidLevel       = errors.New("level must not be negative")
	ErrInvalidID          = errors.New("invalid id")
	ErrAlreadyBlacklisted = errors.New("channel is already blacklisted")
	ErrNotBlacklisted     = errors.New("channel is not blacklisted")
	ErrNoBoost            = errors.New("no XP boost is set for this target")
	ErrNoLevelRole        = errors.New("no role is set for this level")
)

// Mutation edits leveling settings inside LevelingStore.Update.
type Mutation func(*model.LevelingSettings) error

func SetXPRange(min, max int) Mutation {
	return func(s *model.LevelingSettings) error {
		if min <= 0 || max <= 0 || min > max {
			return ErrInvalidRange
		}
		s.XPRange = model.XPRange{Min: min, Max: max}
		return nil
	}
}

func SetCooldown(seconds int) Mutation {
	return func(s *model.LevelingSettings) error {
		if seconds < 0 {
			return ErrInvalidCooldown
		}
		s.CooldownSeconds = seconds
		return nil
	}
}

func BlacklistChannel(channelID string) Mutation {
	return func(s *model.LevelingSettings) error {
		if !IsSnowflake(channelID) {
			return fmt.Errorf("%w: channel %q", ErrInvalidID, channelID)
		}
		if s.IsBlacklisted(channelID) {
			return ErrAlreadyBlacklisted
		}
		s.BlacklistedChannels = append(s.BlacklistedChannels, channelID)
		return nil
	}
}

func UnblacklistChannel(channelID string) Mutation {
	return func(s *model.LevelingSettings) error {
		kept := s.BlacklistedChannels[:0]
		found := false
		for _, id := range s.BlacklistedChannels {
			if id == channelID {
				found = true
				continue
			}
			kept = append(kept, id)
		}
		if !found {
			return ErrNotBlacklisted
		}
		s.BlacklistedChannels = kept
		return nil
	}
}

func SetBoost(targetID string, multiplier float64) Mutation {
	return func(s *model.LevelingSettings) error {
		if !IsSnowflake(targetID) {
			return fmt.Errorf("%w: target %q", ErrInvalidID, targetID)
		}
		if multiplier <= 0 {
			return ErrInvalidMultiplier
		}
		if s.XPBoosts == nil {
			s.XPBoosts = map[string]float64{}
		}
		s.XPBoosts[targetID] = multiplier
		return nil
	}
}

func RemoveBoost(targetID string) Mutation {
	return func(s *model.LevelingSettings) error {
		if _, ok := s.XPBoosts[targetID]; !ok {
			return ErrNoBoost
		}
		delete(s.XPBoosts, targetID)
		return nil
	}
}

func SetLevelRole(level int, roleID string) Mutation {
	return func(s *model.LevelingSettings) error {
		if level < 0 {
			return ErrInvalidLevel
		}
		if !IsSnowflake(roleID) {
			return fmt.Errorf("%w: role %q", ErrInvalidID, roleID)
		}
		if s.LevelRoles == nil {
			s.LevelRoles = map[string]string{}
		}
		s.LevelRoles[strconv.Itoa(level)] = roleID
		return nil
	}
}

func RemoveLevelRole(level int) Mutation {
	return func(s *model.LevelingSettings) error {
		key := strconv.Itoa(level)
		if _, ok := s.LevelRoles[key]; !ok {
			return ErrNoLevelRole
		}
		delete(s.LevelRoles, key)
		return nil
	}
}

// SetRankThreshold sets the rank below which level roles are stripped.
// Zero or a negative value clears it.
func SetRankThreshold(rank int) Mutation {
	return func(s *model.LevelingSettings) error {
		if rank <= 0 {
			s.RankThreshold = nil
			return nil
		}
		s.RankThreshold = &rank
		return nil
	}
}

func SetRemovePreviousRoles(enabled bool) Mutation {
	return func(s *model.LevelingSettings) error {
		s.RemovePreviousRoles = enabled
		return nil
	}
}
