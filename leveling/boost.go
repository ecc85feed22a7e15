package leveling

import (
	"math/rand"

	"github.com/bwmarrin/discordgo"
)

// BoostFor returns the highest multiplier that applies to member, never below 1.
// Boosts are keyed by user id or role id; non-positive entries are ignored.
func BoostFor(member *discordgo.Member, boosts map[string]float64) float64 {
	boost := 1.0
	if member == nil || len(boosts) == 0 {
		return boost
	}
	if member.User != nil {
		if b, ok := boosts[member.User.ID]; ok && b > boost {
			boost = b
		}
	}
	for _, roleID := range member.Roles {
		if b, ok := boosts[roleID]; ok && b > boost {
			boost = b
		}
	}
	return boost
}

// BoostedXP applies boost to a base roll, truncating toward zero.
func BoostedXP(base int, boost float64) int {
	return int(float64(base) * boost)
}

// RollXP draws uniformly from [min, max].
func RollXP(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}
