package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/history"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/inline"
	"github.com/subgate-cli/subgate/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists the journal of confirmed subscriptions and relays.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List confirmed subscriptions and relays, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.Get()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(inline.WriteJSON(cmd.OutOrStdout(), entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("nothing here yet"))
			return
		}

		for _, e := range entries {
			mark := icon.Get(icon.Mark)
			if e.Action == history.Relayed {
				mark = icon.Get(icon.Relay)
			}

			cmd.Printf(
				"%s %s %s %s\n",
				style.Fg(color.Purple)(mark),
				style.Faint(e.At.Format("2006-01-02 15:04")),
				e.String(),
				style.Fg(color.Yellow)(e.Outcome),
			)
		}
	},
}
