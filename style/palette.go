package style

import "github.com/charmbracelet/lipgloss"

// Interface colors of the player screens.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Overlay = lipgloss.Color("#6c7086")
	Mauve   = lipgloss.Color("#cba6f7")
	Red     = lipgloss.Color("#f38ba8")
	Yellow  = lipgloss.Color("#f9e2af")
	Green   = lipgloss.Color("#a6e3a1")

	AccentColor = Mauve
	ErrorColor  = Red
	FaintColor  = Overlay
)
