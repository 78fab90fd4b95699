package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/download"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/query"
	"github.com/vidlink-cli/vidlink/resolver"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/util"
	"github.com/vidlink-cli/vidlink/where"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

// downloadCmd saves a video without playing it.
var downloadCmd = &cobra.Command{
	Use:   "download [link]",
	Short: "Save a video to the downloads directory",
	Long: `Resolve a link and save its first downloadable source to the downloads directory.
Embeds and failed transfers are opened in the system handler instead, so they can be saved from there.`,
	Aliases:           []string{"dl"},
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionQueries,
	Run: func(cmd *cobra.Command, args []string) {
		var input string
		if len(args) > 0 {
			input = args[0]
		} else {
			prompt := survey.Input{
				Message: "Link to download:",
				Suggest: query.SuggestMany,
			}
			handleErr(survey.AskOne(&prompt, &input, survey.WithValidator(survey.Required)))
		}

		ctx := context.Background()

		parser, err := resolver.FromConfig()
		handleErr(err)

		resolving := util.PrintErasable(fmt.Sprintf("%s Resolving...", icon.Get(icon.Progress)))
		data, err := parser.Parse(ctx, input)
		resolving()
		handleErr(err)

		if err := query.Remember(input, 1); err != nil {
			log.Warnf("remember %s: %v", input, err)
		}

		fmt.Printf("%s %s\n", icon.Get(icon.Success), style.Bold(data.Title))

		var (
			mu    sync.Mutex
			erase func()
		)
		progress := func(written, total int64) {
			mu.Lock()
			defer mu.Unlock()

			line := fmt.Sprintf("%s %s", icon.Get(icon.Download), util.FormatBytes(written))
			if total > 0 {
				line += fmt.Sprintf(" / %s (%d%%)", util.FormatBytes(total), written*100/total)
			}
			if erase != nil {
				erase()
			}
			erase = util.PrintErasable(line)
		}

		outcome, err := download.New(nil, nil).Force(ctx, data, mo.None[[]byte](), progress)
		if erase != nil {
			erase()
		}
		handleErr(err)

		if outcome.External != "" {
			fmt.Printf("%s Opened %s in the system handler\n", style.Fg(color.Yellow)(icon.Get(icon.Link)), style.Faint(outcome.External))
			return
		}

		fmt.Printf("%s Saved to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), outcome.Path)
		fmt.Println(style.Faint("Downloads directory: " + where.Downloads()))
	},
}
