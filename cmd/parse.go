package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/enrich"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/inline"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/resolver"
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	parseCmd.Flags().BoolP("enrich", "e", false, "Attach tags and a summary from the enrichment service")
	lo.Must0(viper.BindPFlag(key.EnrichEnable, parseCmd.Flags().Lookup("enrich")))

	parseCmd.Flags().StringP("pick", "p", "", "Print only source URLs: primary, downloadable or all")
	lo.Must0(parseCmd.RegisterFlagCompletionFunc("pick", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"primary", "downloadable", "all"}, cobra.ShellCompDirectiveNoFileComp
	}))
	parseCmd.MarkFlagsMutuallyExclusive("json", "pick")

	parseCmd.Flags().IntP("concurrency", "C", 4, "How many links are resolved at once")
	parseCmd.Flags().StringP("output", "o", "", "Write the output to a file")
}

// parseCmd resolves links without playing them.
var parseCmd = &cobra.Command{
	Use:   "parse [link...]",
	Short: "Resolve links and print the playable sources",
	Long: `Resolve one or more pasted links without opening the player.

Accepted input:
  Bilibili  BV/av identifiers, video pages and b23.tv short links
  YouTube   watch?v=, youtu.be/ and /embed/ links
  Direct    links ending in .mp4, .webm, .ogg or .mov

Links that cannot be recognised are reported per entry and do not stop the others.`,
	Example: `  vidlink parse BV1xx411c7mD
  vidlink parse --json https://youtu.be/dQw4w9WgXcQ https://example.com/clip.mp4
  vidlink parse --pick downloadable https://example.com/clip.mp4`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionQueries,
	Run: func(cmd *cobra.Command, args []string) {
		parser, err := resolver.FromConfig()
		handleErr(err)

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		options := &inline.Options{
			Out:         writer,
			Parser:      parser,
			Enricher:    mo.None[inline.Enricher](),
			Inputs:      args,
			Json:        lo.Must(cmd.Flags().GetBool("json")),
			Concurrency: lo.Must(cmd.Flags().GetInt("concurrency")),
			Picker:      mo.None[inline.SourcePicker](),
		}

		if viper.GetBool(key.EnrichEnable) {
			options.Enricher = mo.Some[inline.Enricher](enrich.FromConfig())
		}

		if pick := lo.Must(cmd.Flags().GetString("pick")); pick != "" {
			picker, err := inline.ParseSourcePicker(pick)
			handleErr(err)
			options.Picker = mo.Some(picker)
		} else {
			options.Pretty = !options.Json
		}

		handleErr(inline.Run(context.Background(), options))
	},
}

func init() {
	parseCmd.AddCommand(parseSchemaCmd)
}

// parseSchemaCmd prints the JSON schema of parse --json output.
var parseSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the parse output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "data", "video", "enrichment", "entry", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}
