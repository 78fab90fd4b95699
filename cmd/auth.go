package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/auth"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/config"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/zalando/go-keyring"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages the enrichment service credential.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the enrichment service credential",
	Long: `Store the enrichment service credential in the system keyring.
An explicit enrich.api_key configuration value takes precedence over the keyring.`,
}

func init() {
	authCmd.AddCommand(authSetCmd)
}

var authSetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the credential, prompting for it when omitted",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var secret string
		if len(args) > 0 {
			secret = args[0]
		} else {
			prompt := survey.Password{Message: "Enrichment API key:"}
			handleErr(survey.AskOne(&prompt, &secret, survey.WithValidator(survey.Required)))
		}

		secret = strings.TrimSpace(secret)
		if secret == "" {
			handleErr(errors.New("the key is empty"))
		}

		handleErr(auth.SetKey(secret))
		fmt.Printf("%s Credential stored in the system keyring\n", style.Fg(color.Green)(icon.Get(icon.Success)))

		if viper.GetString(key.EnrichAPIKey) != "" {
			fmt.Println(style.Faint(key.EnrichAPIKey + " is set in the configuration and takes precedence"))
		}
	},
}

func init() {
	authCmd.AddCommand(authGetCmd)
	authGetCmd.Flags().BoolP("reveal", "r", false, "Print the credential instead of a masked form")
}

var authGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored credential",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		secret, err := auth.GetKey()
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("%s No credential stored\n", icon.Get(icon.Fail))
			return
		}
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("reveal")) {
			fmt.Println(secret)
			return
		}

		fmt.Println(config.Mask(secret))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
	authDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the stored credential",
	Aliases: []string{"remove"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) {
			confirm := survey.Confirm{
				Message: "Remove the enrichment credential from the keyring?",
				Default: false,
			}
			var response bool
			handleErr(survey.AskOne(&confirm, &response))

			if !response {
				return
			}
		}

		err := auth.DeleteKey()
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("%s No credential stored\n", icon.Get(icon.Fail))
			return
		}
		handleErr(err)

		fmt.Printf("%s Credential removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
