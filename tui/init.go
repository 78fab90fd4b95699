package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init resolves the link passed on the command line, if any.
func (b *statefulBubble) Init() tea.Cmd {
	if b.input != "" {
		return b.submit(b.input, b.start)
	}

	return textinput.Blink
}
