package inline

import (
	"fmt"
	"io"
	"strings"

	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/style"
)

// writePretty prints a short card per entry, failures included.
func writePretty(out io.Writer, entries []*Entry) error {
	var sb strings.Builder

	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}

		if entry.Result == nil {
			fmt.Fprintf(&sb, "%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), style.Faint(entry.Input))
			fmt.Fprintf(&sb, "  %s\n", strings.ReplaceAll(entry.Error, "\n", "\n  "))
			continue
		}

		writeCard(&sb, entry.Result)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func writeCard(sb *strings.Builder, data *source.Data) {
	fmt.Fprintf(sb, "%s %s %s\n", icon.Get(icon.Success), style.Platform(data.Platform), style.Bold(data.Title))

	details := []string{string(data.PlayerType)}
	if data.Duration != "" {
		details = append(details, data.Duration)
	}
	if data.ID != "" {
		details = append(details, data.ID)
	}
	fmt.Fprintf(sb, "  %s\n", style.Faint(strings.Join(details, " • ")))

	for _, video := range data.Sources {
		mark := icon.Get(icon.Embed)
		if video.Downloadable {
			mark = icon.Get(icon.Download)
		}
		fmt.Fprintf(sb, "  %s %s %s %s\n", mark, style.Fg(color.Purple)(video.Format), video.Quality, style.Faint(video.URL))
	}

	if summary := data.AISummary; summary != nil {
		fmt.Fprintf(sb, "  %s\n", summary.Summary)
		if len(summary.Tags) > 0 {
			fmt.Fprintf(sb, "  %s %s\n", style.Fg(color.Yellow)("#"+strings.Join(summary.Tags, " #")), style.Faint(summary.Sentiment))
		}
	}
}
