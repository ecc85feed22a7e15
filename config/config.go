package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"leveling-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	defaultLevelingConfigPath = "leveling_config.json"
	DefaultLevelingDBPath     = "data/levels.db"
	defaultIgnorePrefix       = "!"
	defaultCorrectionDelayMS  = 100
)

// ErrMissingToken is returned when BOT_TOKEN is not set.
var ErrMissingToken = errors.New("BOT_TOKEN environment variable not set")

// Load loads the process configuration from .env and the environment.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*model.Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, ErrMissingToken
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	delay := defaultCorrectionDelayMS
	if raw := os.Getenv("STARTUP_CORRECTION_DELAY_MS"); raw != "" {
		v, err := cast.ToIntE(raw)
		if err != nil || v < 0 {
			log.Printf("Warning: Invalid STARTUP_CORRECTION_DELAY_MS value %q, using default of %d.", raw, defaultCorrectionDelayMS)
		} else {
			delay = v
		}
	}

	ignorePrefix, ok := os.LookupEnv("IGNORE_PREFIX")
	if !ok {
		ignorePrefix = defaultIgnorePrefix
	}

	return &model.Config{
		BotToken:                 token,
		LogChannelID:             logChannelID,
		LogFile:                  os.Getenv("LOG_FILE"),
		DeveloperUserIDs:         splitIDs(os.Getenv("DEVELOPER_USER_IDS")),
		LevelingConfigPath:       envOr("LEVELING_CONFIG_PATH", defaultLevelingConfigPath),
		LevelingDBPath:           envOr("LEVELING_DB_PATH", DefaultLevelingDBPath),
		IgnorePrefix:             ignorePrefix,
		DisableStartupCorrection: cast.ToBool(os.Getenv("DISABLE_STARTUP_CORRECTION")),
		StartupCorrectionDelayMS: delay,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
