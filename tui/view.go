package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case inputState:
		output = b.viewInput()
	case historyState:
		output = listExtraPaddingStyle.Render(b.historyC.View())
	case resolvingState:
		output = b.viewResolving()
	case playingState:
		output = b.viewPlaying()
	case embedState:
		output = b.viewEmbed()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewInput() string {
	lines := []string{
		style.Title("Paste a link"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok && suggestion != b.inputC.Value() {
		lines = append(lines, "", style.Faint(icon.Get(icon.Search)+" "+suggestion))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewResolving() string {
	return b.renderLines(true, []string{
		style.Title("Resolving"),
		"",
		style.Truncate(b.width)(b.spinnerC.View() + " " + b.input),
	})
}

func (b *statefulBubble) viewPlaying() string {
	state := b.deps.machine.State()

	lines := append(b.header(), "")

	switch state.Phase {
	case buffer.Downloading:
		status := fmt.Sprintf("%s Caching %d%%", b.spinnerC.View(), state.Progress)
		lines = append(lines, status, b.progressC.View(), style.Faint("press s to stream without caching"))
	case buffer.Ready:
		lines = append(lines, style.Fg(color.Green)(icon.Get(icon.Buffer)+" Playing from memory"))
	case buffer.StreamingFallback:
		lines = append(lines, style.Fg(color.Yellow)(icon.Get(icon.Fallback)+" Streaming directly"))
	}

	if b.attached {
		status := icon.Get(icon.Play)
		if b.paused {
			status = icon.Get(icon.Pause)
		}
		position := fmt.Sprintf("%s %s / %s", status, util.FormatDuration(int(b.position)), util.FormatDuration(int(b.duration)))
		lines = append(lines, "", position)
	}

	if b.frame != nil {
		lines = append(lines, "", fmt.Sprintf("%s Frame at %s (%s), w to save, esc to dismiss",
			icon.Get(icon.Capture),
			util.FormatDuration(int(b.frame.Timestamp)),
			util.FormatBytes(int64(len(b.frame.Image))),
		))
	}

	lines = append(lines, b.viewDownload()...)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewEmbed() string {
	lines := append(b.header(),
		"",
		icon.Get(icon.Embed)+" Opened the embed page in your browser",
		style.Faint(b.data.Primary().URL),
	)

	lines = append(lines, b.viewDownload()...)
	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewDownload() []string {
	if !b.downloading {
		return nil
	}

	status := fmt.Sprintf("%s Downloading %s", icon.Get(icon.Download), util.FormatBytes(b.downloadWritten))
	if b.downloadTotal > 0 {
		status += " / " + util.FormatBytes(b.downloadTotal)
		return []string{"", status, b.downloadC.View()}
	}
	return []string{"", status}
}

// header describes the current result.
func (b *statefulBubble) header() []string {
	data := b.data
	if data == nil {
		return nil
	}

	title := style.Platform(data.Platform)
	lines := []string{
		style.Truncate(b.width)(title + " " + style.Fg(color.Purple)(data.Title)),
	}

	var details []string
	if primary := data.Primary(); primary != nil {
		details = append(details, primary.Format, primary.Quality)
	}
	if data.Duration != "" {
		details = append(details, data.Duration)
	}
	if data.PlayerType == source.Iframe {
		details = append(details, icon.Get(icon.Lock)+" no capture")
	}
	lines = append(lines, style.Faint(strings.Join(details, " • ")))

	if summary := data.AISummary; summary != nil {
		lines = append(lines, "", style.Truncate(b.width)(summary.Summary), style.Faint("#"+strings.Join(summary.Tags, " #")))
	}

	return lines
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(color.Red).Bold(true).Width(b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorStyle.Render(b.lastError.Error()),
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
