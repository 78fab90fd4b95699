package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/util"
	"github.com/vidlink-cli/vidlink/where"
)

// clearTarget is something vidlink wrote to disk that may be removed.
type clearTarget struct {
	name  string
	flag  string
	short string
	// paths lists what to remove. Directories are removed recursively.
	paths func() []string
}

var clearTargets = []clearTarget{
	{"cache", "cache", "c", single(where.Cache)},
	{"watch history", "history", "s", single(where.History)},
	{"parsed links", "queries", "q", single(where.Queries)},
	{"enrichment records", "enrichment", "e", single(where.Enrichment)},
	{"temporary files", "temp", "t", single(where.Temp)},
	{"unfinished downloads", "partial", "p", partialDownloads},
}

func single(path func() string) func() []string {
	return func() []string { return []string{path()} }
}

// partialDownloads finds files left behind by interrupted downloads.
func partialDownloads() []string {
	var found []string
	_ = afero.Walk(filesystem.API().Fs, where.Downloads(), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && strings.HasSuffix(path, filesystem.PartialSuffix) {
			found = append(found, path)
		}
		return nil
	})
	return found
}

// footprint sums the size of path, walking directories.
func footprint(path string) int64 {
	var size int64
	_ = afero.Walk(filesystem.API().Fs, path, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		clearCmd.Flags().BoolP(target.flag, target.short, false, "clear "+target.name)
	}
	clearCmd.Flags().BoolP("all", "a", false, "clear everything above")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached, temporary and history files",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))

		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(t.flag))
		})
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))

			var freed int64
			for _, path := range target.paths() {
				size := footprint(path)
				if err := util.Delete(path); err != nil && !os.IsNotExist(err) {
					erase()
					handleErr(err)
				}
				freed += size
			}

			erase()
			fmt.Printf(
				"%s %s cleared %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				util.Capitalize(target.name),
				style.Faint("("+util.FormatBytes(freed)+")"),
			)
		}
	},
}
