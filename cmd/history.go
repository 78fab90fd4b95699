package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/history"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().IntP("limit", "n", 0, "Show only the most recent entries")
	historyCmd.Flags().BoolP("remove", "r", false, "Pick entries to remove")
	historyCmd.MarkFlagsMutuallyExclusive("json", "remove")

	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists played links.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List played links with their watched percentage",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.Sorted()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(records) {
			records = records[:limit]
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		case lo.Must(cmd.Flags().GetBool("remove")):
			removeHistory(records)
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("History is empty"))
			return
		}

		threshold := viper.GetFloat64(key.PlayerCompletionPercentage)
		for _, record := range records {
			watched := style.Fg(color.Yellow)(fmt.Sprintf("%.0f%%", record.WatchedPercentage))
			if record.WatchedPercentage >= threshold {
				watched = style.Fg(color.Green)(icon.Get(icon.Success))
			}

			cmd.Printf("%s %s %s\n", watched, style.Bold(record.Title), style.Faint(record.Platform.Label()))
			cmd.Printf("  %s %s\n", util.FormatDuration(int(record.Position)), style.Faint(record.Input))
		}
	},
}

func removeHistory(records []*history.SavedVideo) {
	if len(records) == 0 {
		return
	}

	options := lo.Map(records, func(record *history.SavedVideo, _ int) string {
		return record.String()
	})

	var picked []int
	prompt := survey.MultiSelect{
		Message: "Remove which entries?",
		Options: options,
	}
	handleErr(survey.AskOne(&prompt, &picked))

	for _, i := range picked {
		handleErr(history.Remove(records[i]))
	}

	fmt.Printf("%s Removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), util.Quantify(len(picked), "entry", "entries"))
}
