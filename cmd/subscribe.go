package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/subgate-cli/subgate/app"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/style"
	"github.com/subgate-cli/subgate/subscription"
	"github.com/subgate-cli/subgate/util"
)

func init() {
	rootCmd.AddCommand(subscribeCmd)

	subscribeCmd.Flags().StringP("tmdb-id", "t", "", "TMDB id of the item to subscribe to")
	subscribeCmd.Flags().StringP("type", "T", string(media.Movie), "Media type, movie or tv")
	subscribeCmd.Flags().String("title", "", "Title sent with the subscription")
	subscribeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	lo.Must0(subscribeCmd.MarkFlagRequired("tmdb-id"))
}

// subscribeCmd sends a subscription for an item directly to the CMS.
var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Send a subscription for a TMDB item to the CMS",
	Run: func(cmd *cobra.Command, args []string) {
		req := &media.Request{
			TMDBID: lo.Must(cmd.Flags().GetString("tmdb-id")),
			Type:   media.ParseType(lo.Must(cmd.Flags().GetString("type"))),
			Title:  lo.Must(cmd.Flags().GetString("title")),
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Subscribe to %s (%s %s)?", req.DisplayTitle(), req.Type, req.TMDBID),
				Default: true,
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		client, err := app.NewBackend(nil)
		handleErr(err)

		ctx, stop := signalContext()
		defer stop()

		erase := util.PrintErasable(fmt.Sprintf("%s Submitting...", icon.Get(icon.Progress)))
		result, err := subscription.New(client, app.Journal(), nil).Submit(ctx, "", req)
		erase()
		handleErr(err)

		switch result.Outcome {
		case subscription.Success:
			fmt.Printf("%s Subscribed to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(req.DisplayTitle()))
		case subscription.AlreadyExists:
			fmt.Printf("%s %s is already subscribed\n", icon.Get(icon.Info), style.Bold(req.DisplayTitle()))
		default:
			handleErr(fmt.Errorf("subscription failed: %s", lo.Ternary(result.Message != "", result.Message, result.Reason)))
		}
	},
}
