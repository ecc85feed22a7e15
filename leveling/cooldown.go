package leveling

import (
	"sync"
	"time"
)

// Cooldowns tracks the last XP grant per guild member. Not persisted.
type Cooldowns struct {
	mu   sync.Mutex
	last map[string]map[string]time.Time
}

// NewCooldowns creates an empty cooldown table.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{last: make(map[string]map[string]time.Time)}
}

// TryAcquire records now for (guildID, userID) and returns true if the
// previous grant is at least window old. Check and set happen under one lock
// so two overlapping messages cannot both pass.
func (c *Cooldowns) TryAcquire(guildID, userID string, now time.Time, window time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, ok := c.last[guildID]
	if !ok {
		users = make(map[string]time.Time)
		c.last[guildID] = users
	}
	if last, ok := users[userID]; ok && now.Sub(last) < window {
		return false
	}
	users[userID] = now
	return true
}

// Last returns the recorded grant time for a member.
func (c *Cooldowns) Last(guildID, userID string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.last[guildID][userID]
	return t, ok
}

// Prune drops entries older than window and returns how many were removed.
func (c *Cooldowns) Prune(now time.Time, window time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for guildID, users := range c.last {
		for userID, t := range users {
			if now.Sub(t) >= window {
				delete(users, userID)
				removed++
			}
		}
		if len(users) == 0 {
			delete(c.last, guildID)
		}
	}
	return removed
}
