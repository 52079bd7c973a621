package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/subgate-cli/subgate/app"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/inline"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/orchestrator"
	"github.com/subgate-cli/subgate/style"
	"github.com/subgate-cli/subgate/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("tmdb-id", "t", "", "TMDB id of the item to inspect")
	inspectCmd.Flags().StringP("type", "T", string(media.Movie), "Media type, movie or tv")
	inspectCmd.Flags().String("title", "", "Title shown in the output")
	inspectCmd.Flags().StringP("kind", "k", "", "Resource kind to load: 115, magnet, ed2k or video")
	inspectCmd.Flags().StringP("scope", "s", "", "Season or episode to load, e.g. S01, S01E02 or all")
	inspectCmd.Flags().StringP("match", "m", "", "Only keep items whose name fuzzily matches this query")
	inspectCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	lo.Must0(inspectCmd.MarkFlagRequired("tmdb-id"))
	inspectCmd.SetOut(os.Stdout)

	lo.Must0(inspectCmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(media.Kinds, func(k media.Kind, _ int) string { return string(k) }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(inspectCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(media.Movie), string(media.TV)}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// inspectCmd runs discovery and one listing for an item without hosting the web application.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Discover and list the resources of a TMDB item",
	Long: `Ask the CMS which resource kinds exist for a TMDB item and optionally load one of them.

Without --kind only availability is shown.
Scopes are ignored for movies and 115 shares.`,
	Example: "  subgate inspect -t 1399 -T tv -k magnet -s S01\n  subgate inspect -t 27205 -k ed2k --json",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			query  = lo.Must(cmd.Flags().GetString("match"))
			kind   media.Kind
			err    error
		)

		req := &media.Request{
			TMDBID: lo.Must(cmd.Flags().GetString("tmdb-id")),
			Type:   media.ParseType(lo.Must(cmd.Flags().GetString("type"))),
			Title:  lo.Must(cmd.Flags().GetString("title")),
		}

		if name := lo.Must(cmd.Flags().GetString("kind")); name != "" {
			kind, err = media.ParseKind(name)
			handleErr(err)
		}

		view, err := inspect(req, kind, lo.Must(cmd.Flags().GetString("scope")))
		handleErr(err)

		if asJson {
			handleErr(inline.WriteJSON(cmd.OutOrStdout(), inline.NewInspection(view, kind, query)))
			return
		}

		printInspection(cmd, view, kind, query)
	},
}

// inspect starts a private session for req and waits for every call it issued.
func inspect(req *media.Request, kind media.Kind, scopeFlag string) (orchestrator.View, error) {
	client, err := app.NewBackend(nil)
	if err != nil {
		return orchestrator.View{}, err
	}

	ctx, stop := signalContext()
	defer stop()

	registry := orchestrator.NewRegistry(ctx, client, nil)
	defer registry.Dismiss()

	session, err := registry.Start(req)
	if err != nil {
		return orchestrator.View{}, err
	}
	session.Wait()

	if kind != "" {
		scope := orchestrator.DefaultScope(req.Type, kind)
		if scopeFlag != "" {
			if scope, err = inline.ParseScope(scopeFlag); err != nil {
				return orchestrator.View{}, err
			}
		}

		if err := session.LoadKind(kind, scope); err != nil {
			return orchestrator.View{}, err
		}
		session.Wait()
	}

	if ctx.Err() != nil {
		return orchestrator.View{}, errors.New("interrupted")
	}
	return session.Snapshot(), nil
}

func printInspection(cmd *cobra.Command, view orchestrator.View, kind media.Kind, query string) {
	cmd.Println(style.Bold(view.Request.DisplayTitle()), style.Faint(view.Request.TMDBURL()))

	if view.Discovery == orchestrator.Failed {
		cmd.Printf("%s discovery failed: %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), view.InfoErr)
	}

	for _, k := range media.Kinds {
		mark := style.Fg(color.Red)(icon.Get(icon.Fail))
		if view.Availability[k] {
			mark = style.Fg(color.Green)(icon.Get(icon.Success))
		}
		cmd.Printf("  %s %s\n", mark, k)
	}

	if kind == "" {
		return
	}

	kv := view.Kind(kind)
	if kv.State == orchestrator.Failed {
		handleErr(fmt.Errorf("%s: %s", kind, kv.Err))
	}
	if kv.Listing.Empty() {
		cmd.Printf("\n%s no %s resources for %s\n", icon.Get(icon.Info), kind, kv.Scope)
		return
	}

	listing := kv.Listing.Match(query)
	cmd.Printf("\n%s %s for %s\n", icon.Get(icon.Mark), util.Quantify(len(listing.Items), "item", "items"), kv.Scope)
	if listing.Approximate {
		cmd.Println(style.Fg(color.Yellow)("no exact episode match, showing the whole season"))
	}
	for _, item := range listing.Items {
		cmd.Println(item.Locator)
	}
}
