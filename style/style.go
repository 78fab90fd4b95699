// Package style composes the lipgloss styles used by the CLI and the TUI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/source"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a style with the given foreground and background. Either may be empty.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a renderer that paints text with c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a renderer that wraps text at max columns.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().Width(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Tag returns a renderer for a padded block in fg on bg.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}

// Title renders a section banner.
var Title = Tag(color.New("230"), color.New("62"))

// ErrorTitle renders the banner of the error screen.
var ErrorTitle = Tag(color.New("230"), color.Red)

// Platform renders the tag naming the site a result came from, in that site's color.
func Platform(p source.Platform) string {
	return Tag(color.New("230"), color.ForPlatform(p))(p.Label())
}
