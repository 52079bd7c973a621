package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/subgate-cli/subgate/auth"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/util"
	"github.com/subgate-cli/subgate/where"
)

// clearTarget defines a filesystem resource eligible for automated cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

// clearTargets registry of all application artifacts that can be selectively cleared.
var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"captured bodies", "captures", mo.Some("d"), where.Captures},
	{"history journal", "history", mo.Some("s"), where.History},
	{"version cache", "version", mo.None[string](), where.VersionCache},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
	clearCmd.Flags().BoolP("token", "t", false, "clear the token stored in the system keyring")
}

// clearCmd manages the cleanup of temporary and cached application artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear temporary and cached application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		doClear := func(what string) bool {
			return lo.Must(cmd.Flags().GetBool(what))
		}

		for _, target := range clearTargets {
			if doClear(target.argLong) {
				anyCleared = true
				e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
				err := util.Delete(target.location())
				e()
				if !errors.Is(err, os.ErrNotExist) {
					handleErr(err)
				}
				fmt.Printf("%s Cleared %s\n", icon.Get(icon.Success), target.name)
			}
		}

		if lo.Must(cmd.Flags().GetBool("token")) {
			anyCleared = true
			handleErr(auth.DeleteToken())
			fmt.Printf("%s Cleared stored token\n", icon.Get(icon.Success))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
