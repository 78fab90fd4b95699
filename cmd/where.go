package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/where"
)

// location is a path vidlink reads or writes. Locations without a short flag stay out of the listing.
type location struct {
	name  string
	flag  string
	short string
	path  func() string
}

var locations = []location{
	{"Config", "config", "c", where.Config},
	{"Downloads", "downloads", "d", where.Downloads},
	{"Captures", "captures", "s", where.Captures},
	{"Logs", "logs", "l", where.Logs},
	{"Cache", "cache", "", where.Cache},
	{"Temp", "temp", "", where.Temp},
	{"History", "history", "", where.History},
	{"Queries", "queries", "", where.Queries},
	{"Enrichment", "enrichment", "", where.Enrichment},
}

func (l location) listed() bool {
	return l.short != ""
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		if l.listed() {
			whereCmd.Flags().BoolP(l.flag, l.short, false, l.name+" path")
			continue
		}
		whereCmd.Flags().Bool(l.flag, false, l.name+" path")
		lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print where settings, downloads, captures and logs live",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		listed := lo.Filter(locations, func(l location, _ int) bool { return l.listed() })

		for i, l := range listed {
			cmd.Printf("%s %s\n", header(l.name+"?"), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())

			if i < len(listed)-1 {
				cmd.Println()
			}
		}
	},
}
