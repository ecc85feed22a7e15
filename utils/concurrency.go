package utils

import (
	"sync"
	"time"
)

// CommandCooldowns rate-limits slash commands per key. A key is usually the
// command name joined with the user or guild id, see CooldownKey.
type CommandCooldowns struct {
	mu    sync.Mutex
	until map[string]time.Time
}

func NewCommandCooldowns() *CommandCooldowns {
	return &CommandCooldowns{until: make(map[string]time.Time)}
}

// CooldownKey scopes a command cooldown to a user or a guild.
func CooldownKey(command, scope string) string {
	return command + ":" + scope
}

// Acquire starts the cooldown for key and returns zero if key is free.
// Otherwise it returns how long the caller still has to wait and leaves the
// existing cooldown untouched.
func (c *CommandCooldowns) Acquire(key string, window time.Duration, now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if until, ok := c.until[key]; ok && now.Before(until) {
		return until.Sub(now)
	}
	c.until[key] = now.Add(window)
	return 0
}

// Prune drops expired cooldowns and returns how many were removed.
func (c *CommandCooldowns) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, until := range c.until {
		if !now.Before(until) {
			delete(c.until, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked cooldowns.
func (c *CommandCooldowns) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.until)
}
