package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"leveling-bot/model"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// LevelingStore owns leveling_config.json. Reads are lock-free snapshots;
// writes are serialised and persisted before they become visible.
type LevelingStore struct {
	path    string
	mu      sync.Mutex
	current atomic.Value // model.LevelingSettings
}

// NewLevelingStore loads path, creating it with defaults when absent.
func NewLevelingStore(path string) (*LevelingStore, error) {
	s := &LevelingStore{path: path}
	settings, rewrite, err := readSettings(path)
	if err != nil {
		return nil, err
	}
	if rewrite {
		if err := writeSettings(path, settings); err != nil {
			return nil, fmt.Errorf("failed to write leveling config %s: %w", path, err)
		}
	}
	s.current.Store(settings)
	log.Printf("[Config] Leveling settings loaded from %s: %d level roles, %d boosts, %d blacklisted channels.",
		path, len(settings.LevelRoles), len(settings.XPBoosts), len(settings.BlacklistedChannels))
	return s, nil
}

// Path returns the backing file.
func (s *LevelingStore) Path() string {
	return s.path
}

// Snapshot returns a private copy of the current settings.
func (s *LevelingStore) Snapshot() model.LevelingSettings {
	return s.current.Load().(model.LevelingSettings).Clone()
}

// Update applies fn to a copy of the current settings, writes the result to
// disk and publishes it. If fn or the write fails nothing changes.
func (s *LevelingStore) Update(fn func(*model.LevelingSettings) error) (model.LevelingSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.Snapshot()
	if err := fn(&next); err != nil {
		return model.LevelingSettings{}, err
	}
	if err := writeSettings(s.path, next); err != nil {
		return model.LevelingSettings{}, fmt.Errorf("failed to persist leveling config: %w", err)
	}
	s.current.Store(next.Clone())
	return next, nil
}

func newSettingsViper() *viper.Viper {
	d := model.DefaultLevelingSettings()
	v := viper.New()
	v.SetDefault("xp_range.min", d.XPRange.Min)
	v.SetDefault("xp_range.max", d.XPRange.Max)
	v.SetDefault("xp_cooldown_seconds", d.CooldownSeconds)
	v.SetDefault("level_roles", map[string]interface{}{})
	v.SetDefault("remove_roles_if_below_rank", nil)
	v.SetDefault("remove_previous_roles", d.RemovePreviousRoles)
	v.SetDefault("blacklisted_channels", []interface{}{})
	v.SetDefault("xp_boosts", map[string]interface{}{})

	v.SetEnvPrefix("LEVELING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readSettings returns the validated settings and whether the file should be
// (re)written, which is the case when it is missing or unreadable as JSON.
func readSettings(path string) (model.LevelingSettings, bool, error) {
	v := newSettingsViper()
	rewrite := false

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Printf("[Config] %s not found, creating it with defaults.", path)
		rewrite = true
	case err != nil:
		return model.LevelingSettings{}, false, fmt.Errorf("failed to read leveling config %s: %w", path, err)
	default:
		// UseNumber keeps 64-bit snowflakes intact.
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw map[string]interface{}
		if err := dec.Decode(&raw); err != nil {
			log.Printf("[Config] %s is not valid JSON (%v), falling back to defaults.", path, err)
			rewrite = true
		} else if err := v.MergeConfigMap(raw); err != nil {
			return model.LevelingSettings{}, false, fmt.Errorf("failed to merge leveling config: %w", err)
		}
	}

	return decodeSettings(v), rewrite, nil
}

// decodeSettings validates every entry; malformed entries are logged and
// replaced by their defaults or dropped.
func decodeSettings(v *viper.Viper) model.LevelingSettings {
	s := model.DefaultLevelingSettings()

	minXP, errMin := cast.ToIntE(v.Get("xp_range.min"))
	maxXP, errMax := cast.ToIntE(v.Get("xp_range.max"))
	if errMin != nil || errMax != nil || minXP <= 0 || maxXP < minXP {
		log.Printf("[Config] Invalid xp_range (%v, %v), using %d-%d.", v.Get("xp_range.min"), v.Get("xp_range.max"), s.XPRange.Min, s.XPRange.Max)
	} else {
		s.XPRange = model.XPRange{Min: minXP, Max: maxXP}
	}

	if cooldown, err := cast.ToIntE(v.Get("xp_cooldown_seconds")); err != nil || cooldown < 0 {
		log.Printf("[Config] Invalid xp_cooldown_seconds %v, using %d.", v.Get("xp_cooldown_seconds"), s.CooldownSeconds)
	} else {
		s.CooldownSeconds = cooldown
	}

	if raw := v.Get("remove_roles_if_below_rank"); raw != nil && raw != "" {
		if threshold, err := cast.ToIntE(raw); err != nil || threshold <= 0 {
			log.Printf("[Config] Invalid remove_roles_if_below_rank %v, treating as unset.", raw)
		} else {
			s.RankThreshold = &threshold
		}
	}

	if removePrevious, err := cast.ToBoolE(v.Get("remove_previous_roles")); err != nil {
		log.Printf("[Config] Invalid remove_previous_roles %v, using %t.", v.Get("remove_previous_roles"), s.RemovePreviousRoles)
	} else {
		s.RemovePreviousRoles = removePrevious
	}

	levelRoles, err := cast.ToStringMapE(v.Get("level_roles"))
	if err != nil {
		log.Printf("[Config] Invalid level_roles: %v", err)
	}
	for key, raw := range levelRoles {
		level, err := strconv.Atoi(strings.TrimSpace(key))
		roleID, errRole := cast.ToStringE(raw)
		if err != nil || level < 0 || errRole != nil || !IsSnowflake(roleID) {
			log.Printf("[Config] Dropping level role entry %q: %v", key, raw)
			continue
		}
		s.LevelRoles[strconv.Itoa(level)] = roleID
	}

	channels, err := cast.ToStringSliceE(v.Get("blacklisted_channels"))
	if err != nil {
		log.Printf("[Config] Invalid blacklisted_channels: %v", err)
	}
	for _, id := range channels {
		if !IsSnowflake(id) {
			log.Printf("[Config] Dropping blacklisted channel %q.", id)
			continue
		}
		if !s.IsBlacklisted(id) {
			s.BlacklistedChannels = append(s.BlacklistedChannels, id)
		}
	}

	boosts, err := cast.ToStringMapE(v.Get("xp_boosts"))
	if err != nil {
		log.Printf("[Config] Invalid xp_boosts: %v", err)
	}
	for id, raw := range boosts {
		multiplier, err := cast.ToFloat64E(raw)
		if err != nil || multiplier <= 0 || !IsSnowflake(id) {
			log.Printf("[Config] Dropping xp boost entry %q: %v", id, raw)
			continue
		}
		s.XPBoosts[id] = multiplier
	}

	return s
}

// IsSnowflake reports whether id looks like a platform identifier.
func IsSnowflake(id string) bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}

// writeSettings replaces path atomically with the JSON form of s.
func writeSettings(path string, s model.LevelingSettings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".leveling-config-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
