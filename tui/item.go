package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/history"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/util"
)

// listItem implements the list.Item interface for history entries.
type listItem struct {
	internal interface{}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case *history.SavedVideo:
		return fmt.Sprintf("%s %s", icon.Get(icon.Play), e.Title)
	default:
		return t.FilterValue()
	}
}

// Description shows platform, resume position and how much was watched.
func (t *listItem) Description() string {
	e, ok := t.internal.(*history.SavedVideo)
	if !ok {
		return ""
	}

	threshold := viper.GetFloat64(key.PlayerCompletionPercentage)
	if threshold <= 0 {
		threshold = 80
	}

	parts := []string{
		e.Platform.Label(),
		util.FormatDuration(int(e.Position)),
	}

	switch {
	case e.WatchedPercentage >= threshold:
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Green).Render("Watched"))
	case e.WatchedPercentage > 0:
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Yellow).Render(fmt.Sprintf("%.0f%%", e.WatchedPercentage)))
	}

	return strings.Join(parts, " • ")
}

// FilterValue returns the string used for real-time list filtering.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *history.SavedVideo:
		return e.Title + " " + e.Input
	case string:
		return e
	default:
		return ""
	}
}
