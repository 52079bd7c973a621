package cmd

import (
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/subgate-cli/subgate/app"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/inline"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the event stream to")
	inlineCmd.Flags().BoolP("auto-load", "a", false, "Load the first available resource kind of every intercepted item")
	inlineCmd.Flags().StringSliceP("components", "c", []string{}, "Only stream events of these components (interceptor, orchestrator, submitter, relay, version)")
	inlineCmd.Flags().BoolP("pending", "p", false, "Include pending events in the stream")

	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("components", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"interceptor", "orchestrator", "submitter", "relay", "version"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// inlineCmd hosts the web application without the TUI and streams engine events as JSON lines.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Host the web application and stream engine events as JSON lines",
	Long: `Run the reverse proxy and the interceptor without the interactive view.

Every engine event is written as one JSON object per line.
Use "subgate inline schema" to get the JSON schema of an event.`,
	Run: func(cmd *cobra.Command, args []string) {
		var writer io.Writer = os.Stdout

		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		components := mo.None[[]event.Component]()
		if names := lo.Must(cmd.Flags().GetStringSlice("components")); len(names) > 0 {
			parsed, err := inline.ParseComponents(names)
			handleErr(err)
			components = mo.Some(parsed)
		}

		options := &inline.Options{
			Out:        writer,
			AutoLoad:   lo.Must(cmd.Flags().GetBool("auto-load")),
			Components: components,
			Pending:    lo.Must(cmd.Flags().GetBool("pending")),
		}

		ctx, stop := signalContext()
		defer stop()

		a, err := app.New(ctx, app.Options{})
		handleErr(err)
		handleErr(inline.Run(ctx, a, options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
	inlineSchemaCmd.Flags().BoolP("inspect", "i", false, "Describe the output of \"subgate inspect --json\" instead")
}

// inlineSchemaCmd prints the JSON schema of the inline output.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the inline event stream",
	Run: func(cmd *cobra.Command, args []string) {
		schema := inline.Schema(lo.Must(cmd.Flags().GetBool("inspect")))
		handleErr(inline.WriteJSON(cmd.OutOrStdout(), schema))
	},
}
