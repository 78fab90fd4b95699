// Package color holds the terminal colors vidlink renders with.
package color

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vidlink-cli/vidlink/source"
)

// New initializes a lipgloss.Color from an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors. These follow the user's terminal theme.
var (
	Red      = New("1")
	Green    = New("2")
	Yellow   = New("3")
	Blue     = New("4")
	Purple   = New("5")
	Cyan     = New("6")
	HiRed    = New("9")
	HiPurple = New("13")
)

var (
	Orange = New("#ffb703")
	Gray   = New("#808080")
)

var platforms = map[source.Platform]lipgloss.Color{
	source.YouTube:  New("#ff0033"),
	source.Bilibili: New("#00a1d6"),
	source.Direct:   New("62"),
}

// ForPlatform returns the brand color of p, used for the platform tag of a result.
func ForPlatform(p source.Platform) lipgloss.Color {
	if c, ok := platforms[p]; ok {
		return c
	}
	return Gray
}
