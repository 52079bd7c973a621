package version

import (
	"context"
	"time"

	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/log"
)

// Check is a scheduled no-argument check.
type Check func(ctx context.Context)

// NewCheck builds a check publishing an update event when the CMS reports
// a build newer than this one. Failures and malformed answers are only logged.
func NewCheck(fetch Fetcher, sink event.Sink) Check {
	return func(ctx context.Context) {
		logger := log.For("version")

		latest, err := Latest(ctx, fetch)
		if err != nil {
			logger.WithError(err).Debug("version check skipped")
			return
		}

		cmp, err := Compare(latest, constant.Build)
		if err != nil || cmp <= 0 {
			logger.Debugf("build %d is current (latest %s)", constant.Build, latest)
			return
		}

		build, _ := ParseBuild(latest)
		logger.Infof("new build %d available", build)
		sink.Publish(event.Event{
			Component: event.Version,
			Kind:      event.Update,
			Status:    event.Success,
			Build:     build,
		})
	}
}

// Schedule runs check now and then every interval until ctx is done.
func Schedule(ctx context.Context, interval time.Duration, check Check) {
	go func() {
		check(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check(ctx)
			}
		}
	}()
}
