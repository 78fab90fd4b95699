// Package ui renders transient notifications and blocking notices inside the player shell.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/style"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

var noticeStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(color.Red).
	Padding(0, 1)

// Model holds at most one notification and one notice.
// A notification fades on its own, a notice stays until dismissed.
type Model struct {
	notification string
	notifiedAt   time.Time

	notice string
}

// ClearNotificationMsg resets the notification.
type ClearNotificationMsg struct {
	at time.Time
}

// NoticeMsg raises a blocking notice.
type NoticeMsg string

// Notify returns a command that shows text as a notification.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return text
	}
}

// Block returns a command that raises text as a notice.
func Block(text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(text)
	}
}

// ClearNotification clears the notification raised at at once its lifetime is over.
func ClearNotification(at time.Time) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{at: at}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.notification = msg
		m.notifiedAt = time.Now()
		return ClearNotification(m.notifiedAt)
	case ClearNotificationMsg:
		// a newer notification owns the screen
		if msg.at.Equal(m.notifiedAt) {
			m.notification = ""
		}
	case NoticeMsg:
		m.notice = string(msg)
	}
	return nil
}

// Blocking reports whether a notice is waiting to be dismissed.
func (m *Model) Blocking() bool {
	return m.notice != ""
}

// Dismiss drops the notice.
func (m *Model) Dismiss() {
	m.notice = ""
}

// Notification returns the text on screen, if any.
func (m *Model) Notification() string {
	return m.notification
}

// View appends the notification to the last line of mainContent and puts a notice below it.
func (m *Model) View(mainContent string) string {
	if m.notification != "" {
		lines := strings.Split(mainContent, "\n")
		lines[len(lines)-1] += "  " + style.Faint(m.notification)
		mainContent = strings.Join(lines, "\n")
	}

	if m.notice != "" {
		mainContent += "\n" + noticeStyle.Render(m.notice+"\n\n"+style.Faint("esc to dismiss"))
	}

	return mainContent
}
