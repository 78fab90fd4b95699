package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/style"
)

// program is an external executable vidlink hands work to.
type program struct {
	binary   string
	purpose  string
	required bool
	install  map[string]string
}

func programs() []program {
	player := program{
		binary:   "mpv",
		purpose:  "plays resolved videos",
		required: true,
		install: map[string]string{
			"darwin":  "brew install mpv",
			"linux":   "sudo apt install mpv",
			"windows": "scoop install mpv",
		},
	}
	if strings.EqualFold(viper.GetString(key.Player), "iina") {
		player = program{binary: "open", purpose: "launches IINA", required: runtime.GOOS == "darwin"}
	}

	return []program{
		player,
		{
			binary:  "yt-dlp",
			purpose: "lets mpv play YouTube watch pages",
			install: map[string]string{
				"darwin":  "brew install yt-dlp",
				"linux":   "pipx install yt-dlp",
				"windows": "scoop install yt-dlp",
			},
		},
	}
}

func (p program) found() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report the external programs " + constant.Vidlink + " relies on",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		missing := 0
		for _, p := range programs() {
			mark, note := style.Fg(color.Green)(icon.Get(icon.Success)), ""
			if !p.found() {
				mark = style.Fg(color.Red)(icon.Get(icon.Fail))
				if hint, ok := p.install[runtime.GOOS]; ok {
					note = style.Faint(" (" + hint + ")")
				}
				if p.required {
					missing++
				}
			}
			fmt.Printf("%s %s %s%s\n", mark, style.Bold(p.binary), style.Faint(p.purpose), note)
		}

		if missing > 0 {
			os.Exit(1)
		}
	},
}

// requirePlayer exits with an explanation when the configured player cannot be started.
func requirePlayer() {
	p, ok := lo.Find(programs(), func(p program) bool { return p.required })
	if !ok || p.found() {
		return
	}

	printMissing(p)
	os.Exit(1)
}

func printMissing(p program) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Missing %s", icon.Get(icon.Fail), p.binary))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("%s was not found in your PATH. It %s.", p.binary, p.purpose))

	lines := []string{title, "", body}
	if hint, ok := p.install[runtime.GOOS]; ok {
		lines = append(lines, "", "To install it, try running:", "  "+style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
