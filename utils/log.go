package utils

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bwmarrin/discordgo"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return 3066993 // Green
	case Warn:
		return 15105570 // Orange
	case Error:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

// BuildLogEmbed renders one audit log entry.
func BuildLogEmbed(level LogLevel, module, operation, extraInfo string) *discordgo.MessageEmbed {
	if extraInfo == "" {
		extraInfo = "-"
	}
	if len(extraInfo) > 1024 {
		extraInfo = extraInfo[:1021] + "..."
	}
	return &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: extraInfo},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func sendLog(s *discordgo.Session, channelID string, level LogLevel, module, operation, extraInfo string) error {
	if s == nil || channelID == "" {
		return nil
	}
	_, err := s.ChannelMessageSendEmbed(channelID, BuildLogEmbed(level, module, operation, extraInfo))
	return err
}

func LogInfo(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Info, module, operation, extraInfo)
}

func LogWarn(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Warn, module, operation, extraInfo)
}

func LogError(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Error, module, operation, extraInfo)
}

// TeeLogFile makes the standard logger write to path as well as stderr.
// The returned closer restores stderr-only logging.
func TeeLogFile(path string) (io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return closerFunc(func() error {
		log.SetOutput(os.Stderr)
		return f.Close()
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
