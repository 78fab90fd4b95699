package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/config"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/where"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are unset")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVariable pairs a config key with the variable that overrides it.
type envVariable struct {
	key  string
	name string
}

func envVariables() []envVariable {
	variables := lo.Map(config.EnvExposed, func(k string, _ int) envVariable {
		field := config.Default[k]
		return envVariable{key: k, name: field.Env()}
	})
	variables = append(variables, envVariable{name: where.EnvConfigPath})

	slices.SortFunc(variables, func(a, b envVariable) int {
		return strings.Compare(a.name, b.name)
	})
	return variables
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		section := ""
		for _, v := range envVariables() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			if group, _, _ := strings.Cut(v.key, "."); group != section && group != "" {
				if section != "" {
					cmd.Println()
				}
				section = group
				cmd.Println(style.Faint("# " + group))
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name), "=")
			if present {
				cmd.Println(style.Fg(color.Green)(display(v.key, value)))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
