package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/subgate-cli/subgate/app"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/relay"
	"github.com/subgate-cli/subgate/style"
	"github.com/subgate-cli/subgate/util"
)

func init() {
	rootCmd.AddCommand(relayCmd)
	relayCmd.Flags().StringP("label", "L", "", "Label logged with every relayed locator")
	relayCmd.SetOut(os.Stdout)
}

// relayCmd hands locators to the CMS cloud download queue.
var relayCmd = &cobra.Command{
	Use:   "relay LOCATOR...",
	Short: "Hand magnet, ed2k or share links to the CMS cloud download queue",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := app.NewBackend(nil)
		handleErr(err)

		ctx, stop := signalContext()
		defer stop()

		erase := util.PrintErasable(fmt.Sprintf("%s Relaying %s...", icon.Get(icon.Progress), util.Quantify(len(args), "link", "links")))
		results := relay.New(client, app.Journal()).All(ctx, args, lo.Must(cmd.Flags().GetString("label")))
		erase()

		var failed int
		for _, r := range results {
			if r.OK {
				cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), util.Ellipsis(r.Locator, 80))
				continue
			}

			failed++
			cmd.Printf("%s %s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), util.Ellipsis(r.Locator, 80), style.Faint(r.String()))
		}

		if failed > 0 {
			handleErr(fmt.Errorf("%s failed", util.Quantify(failed, "relay", "relays")))
		}
	},
}
