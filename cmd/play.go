package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolP("continue", "c", false, "Resume the most recent history entry")
}

var playCmd = &cobra.Command{
	Use:               "play [link]",
	Short:             "Resolve a link and play it in mpv",
	Long:              "Resolve a link, cache native sources in memory while you wait and play them in mpv. Embeds open in the browser.",
	Example:           "  vidlink play https://www.bilibili.com/video/BV1xx411c7mD",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionQueries,
	Run:               runPlayer,
}
