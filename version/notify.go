package version

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/style"
	"github.com/subgate-cli/subgate/util"
)

// Notify prints a banner when the CMS has a newer build. Used by one-shot commands.
func Notify(ctx context.Context, fetch Fetcher) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a newer build...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx, fetch)
	erase()
	if err != nil {
		return
	}

	if cmp, err := Compare(latest, constant.Build); err != nil || cmp <= 0 {
		return
	}

	fmt.Printf(`
%s New build is available %s %s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %d)", constant.Build)),
	)
}
