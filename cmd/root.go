// Package cmd implements the command-line interface for subgate.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/app"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/log"
	"github.com/subgate-cli/subgate/style"
	"github.com/subgate-cli/subgate/tui"
	"github.com/subgate-cli/subgate/util"
	"github.com/subgate-cli/subgate/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("backend", "B", "", "Base URL of the media CMS")
	lo.Must0(viper.BindPFlag(key.BackendBaseURL, rootCmd.PersistentFlags().Lookup("backend")))

	rootCmd.Flags().StringP("listen", "l", "", "Address the reverse proxy listens on")
	lo.Must0(viper.BindPFlag(key.ProxyListen, rootCmd.Flags().Lookup("listen")))

	rootCmd.Flags().StringP("upstream", "u", "", "Web application to proxy, defaults to the backend")
	lo.Must0(viper.BindPFlag(key.ProxyUpstream, rootCmd.Flags().Lookup("upstream")))

	rootCmd.Flags().String("metrics", "", "Serve prometheus metrics on this address")
	lo.Must0(viper.BindPFlag(key.MetricsListen, rootCmd.Flags().Lookup("metrics")))

	// Start from a clean temp directory.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd hosts the web application and opens the resource browser for intercepted subscriptions.
var rootCmd = &cobra.Command{
	Use:   constant.Subgate,
	Short: "Intercept media subscriptions and browse their resources before they reach the CMS",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Intercept media subscriptions and browse their resources before they reach the CMS"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		ctx, stop := signalContext()
		defer stop()

		a, err := app.New(ctx, app.Options{})
		handleErr(err)

		options := tui.Options{
			Address: viper.GetString(key.ProxyListen),
		}
		handleErr(tui.Run(ctx, a, &options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// signalContext is cancelled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
