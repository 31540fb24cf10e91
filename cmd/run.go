package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler and lifecycle watcher, reading activations from stdin",
		Long: "run keeps the delayed command scheduler and the mod service lifecycle watcher alive. " +
			"Each stdin line is an entry to activate (id, label or mod name) or a command starting with '/'. " +
			"It stops on interrupt, or once stdin is closed and no command is pending.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if app.cfg.File != "" {
				app.viper.OnConfigChange(func(event fsnotify.Event) {
					app.log.Info().Str("file", event.Name).Str("op", event.Op.String()).Msg("config file changed, restart to apply connection settings")
				})
				app.viper.WatchConfig()
			}

			unsubscribe := app.gateway.Subscribe(func(event domain.ServiceEvent) {
				if event == domain.ServiceInitialized {
					app.gateway.IsAvailable(ctx)
				}
			})
			defer unsubscribe()

			errs := make(chan error, 2)
			go func() { errs <- app.gateway.Watch(ctx) }()
			go func() { errs <- app.pipeline.scheduler.Run(ctx, app.cfg.TickInterval) }()

			lines := scanLines(ctx, cmd.InOrStdin())
			runErr := func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case err := <-errs:
						if err != nil {
							return err
						}
					case line, ok := <-lines:
						if !ok {
							return app.pipeline.scheduler.Drain(ctx, app.cfg.TickInterval)
						}
						handleRunLine(ctx, cmd.OutOrStdout(), app, line)
					}
				}
			}()

			cancel()
			return runErr
		},
	}
}

// scanLines stops sending once ctx ends. A reader blocked in Read is left to process exit.
func scanLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}

func handleRunLine(ctx context.Context, out io.Writer, app *app, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if strings.HasPrefix(line, "/") {
		if err := app.pipeline.sink.Submit(ctx, line); err != nil {
			_, _ = fmt.Fprintf(out, "%s: %v\n", line, err)
		}
		return
	}

	entry, err := app.entries.Find(ctx, line)
	if err != nil {
		_, _ = fmt.Fprintln(out, err)
		return
	}

	all, err := app.entries.List(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(out, err)
		return
	}

	report := app.pipeline.coordinator.Activate(ctx, entry, all)
	_ = writeActivationReport(out, report, app.now())
}
