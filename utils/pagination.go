package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// TotalPages returns how many pages count items fill, never less than one.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// ClampPage keeps page inside [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// CreatePaginationComponents creates a set of pagination buttons.
func CreatePaginationComponents(currentPage, totalPages int, customIDPrefix string, args ...string) []discordgo.MessageComponent {
	if totalPages <= 1 {
		return nil
	}

	buttonArgs := ""
	for _, arg := range args {
		buttonArgs += ":" + arg
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Emoji:    &discordgo.ComponentEmoji{Name: "⬅️"},
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage <= 1,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage-1, buttonArgs),
				},
				discordgo.Button{
					Label:    "Next",
					Emoji:    &discordgo.ComponentEmoji{Name: "➡️"},
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage >= totalPages,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage+1, buttonArgs),
				},
			},
		},
	}
}

// ParsePaginationID splits a custom id built by CreatePaginationComponents.
func ParsePaginationID(customID, customIDPrefix string) (int, []string, error) {
	rest, ok := strings.CutPrefix(customID, customIDPrefix+":")
	if !ok {
		return 0, nil, fmt.Errorf("custom id %q does not start with %q", customID, customIDPrefix)
	}
	parts := strings.Split(rest, ":")
	page, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid page in custom id %q: %w", customID, err)
	}
	return page, parts[1:], nil
}
