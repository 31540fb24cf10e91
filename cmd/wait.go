package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/spf13/cobra"
)

const defaultWaitInterval = time.Second

func newWaitCmd(app *app) *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the mod service is available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			probe, err := waitWithProgress(cmd.Context(), cmd.ErrOrStderr(), timeout,
				func(ctx context.Context, onProbe func(application.Availability)) (application.Availability, error) {
					return waitForService(ctx, app.gateway, interval, onProbe)
				})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "mod service available (api version %d)\n", probe.Version)
			return err
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")
	cmd.Flags().DurationVar(&interval, "interval", defaultWaitInterval, "Delay between availability probes")

	return cmd
}

// waitForService probes until the service is available, reporting every probe to onProbe.
// An Initialized lifecycle event triggers the next probe immediately.
func waitForService(ctx context.Context, gateway *application.Gateway, interval time.Duration, onProbe func(application.Availability)) (application.Availability, error) {
	if interval <= 0 {
		interval = defaultWaitInterval
	}

	wake := make(chan struct{}, 1)
	unsubscribe := gateway.Subscribe(func(event domain.ServiceEvent) {
		if event != domain.ServiceInitialized {
			return
		}
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	watchCtx, stopWatch := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		_ = gateway.Watch(watchCtx)
	}()
	defer func() {
		stopWatch()
		<-watchDone
	}()

	for {
		probe := gateway.Probe(ctx)
		if onProbe != nil {
			onProbe(probe)
		}
		if probe.Available {
			return probe, nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return probe, fmt.Errorf("wait for mod service: %w", ctx.Err())
		case <-wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}
