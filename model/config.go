package model

// Config holds process-level settings read from the environment.
type Config struct {
	BotToken                 string
	LogChannelID             string
	LogFile                  string
	DeveloperUserIDs         []string
	LevelingConfigPath       string
	LevelingDBPath           string
	IgnorePrefix             string
	DisableStartupCorrection bool
	StartupCorrectionDelayMS int
}

// XPRange bounds the random XP rolled per eligible message.
type XPRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LevelingSettings mirrors leveling_config.json.
type LevelingSettings struct {
	XPRange             XPRange            `json:"xp_range"`
	CooldownSeconds     int                `json:"xp_cooldown_seconds"`
	LevelRoles          map[string]string  `json:"level_roles"`
	RankThreshold       *int               `json:"remove_roles_if_below_rank"`
	RemovePreviousRoles bool               `json:"remove_previous_roles"`
	BlacklistedChannels []string           `json:"blacklisted_channels"`
	XPBoosts            map[string]float64 `json:"xp_boosts"`
}

// DefaultLevelingSettings returns the settings used when no file exists.
func DefaultLevelingSettings() LevelingSettings {
	return LevelingSettings{
		XPRange:             XPRange{Min: 15, Max: 25},
		CooldownSeconds:     60,
		LevelRoles:          map[string]string{},
		RankThreshold:       nil,
		RemovePreviousRoles: true,
		BlacklistedChannels: []string{},
		XPBoosts:            map[string]float64{},
	}
}

// Clone returns a deep copy so callers can mutate without touching a published snapshot.
func (s LevelingSettings) Clone() LevelingSettings {
	out := s
	out.LevelRoles = make(map[string]string, len(s.LevelRoles))
	for k, v := range s.LevelRoles {
		out.LevelRoles[k] = v
	}
	out.XPBoosts = make(map[string]float64, len(s.XPBoosts))
	for k, v := range s.XPBoosts {
		out.XPBoosts[k] = v
	}
	out.BlacklistedChannels = append([]string{}, s.BlacklistedChannels...)
	if s.RankThreshold != nil {
		t := *s.RankThreshold
		out.RankThreshold = &t
	}
	return out
}

// IsBlacklisted reports whether XP is disabled in channelID.
func (s LevelingSettings) IsBlacklisted(channelID string) bool {
	for _, id := range s.BlacklistedChannels {
		if id == channelID {
			return true
		}
	}
	return false
}
