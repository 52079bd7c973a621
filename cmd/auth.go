package cmd

import (
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/subgate-cli/subgate/auth"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.SetOut(os.Stdout)
}

// authCmd manages the CMS bearer token.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the token used to authenticate against the CMS",
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("token", "t", "", "The token to store, prompted for when omitted")
}

// authSetCmd stores a token in the system keyring.
var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the CMS token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))
		if token == "" {
			handleErr(survey.AskOne(&survey.Password{
				Message: "CMS token:",
			}, &token, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetToken(token))
		cmd.Printf("%s token stored in the system keyring\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

// authStatusCmd reports where the token comes from without printing it.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a CMS token is configured and where it is read from",
	Run: func(cmd *cobra.Command, args []string) {
		_, source := auth.Lookup()
		if source == auth.SourceNone {
			handleErr(errors.New(`no token configured, run "subgate auth set"`))
		}

		cmd.Printf("%s token found in %s\n", style.Fg(color.Green)(icon.Get(icon.Lock)), style.Bold(string(source)))
	},
}

func init() {
	authCmd.AddCommand(authRemoveCmd)
}

// authRemoveCmd deletes the stored token.
var authRemoveCmd = &cobra.Command{
	Use:     "remove",
	Short:   "Remove the CMS token from the system keyring",
	Aliases: []string{"delete", "logout"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		cmd.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))

		if _, source := auth.Lookup(); source == auth.SourceConfig {
			cmd.Printf("%s auth.token is still set in the config\n", style.Fg(color.Yellow)(icon.Get(icon.Info)))
		}
	},
}
