package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/animation-wardrobe/internal/adapters/host"
	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/spf13/cobra"
)

func newActivateCmd(app *app) *cobra.Command {
	var (
		noWait bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "activate <entry>",
		Short: "Activate an entry by id, label or mod name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			entry, err := app.entries.Find(ctx, args[0])
			if err != nil {
				return err
			}

			all, err := app.entries.List(ctx)
			if err != nil {
				return err
			}

			p := app.pipeline
			if dryRun {
				p = app.newPipeline(host.NewWriterSink(cmd.OutOrStdout()), false)
			}

			report := p.coordinator.Activate(ctx, entry, all)
			if err := writeActivationReport(cmd.OutOrStdout(), report, app.now()); err != nil {
				return err
			}

			if noWait || report.Pending == nil {
				return nil
			}

			return p.scheduler.Drain(ctx, app.cfg.TickInterval)
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return without waiting for the scheduled pose command")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print game commands instead of sending them (mod changes still apply)")

	return cmd
}

func writeActivationReport(w io.Writer, report application.ActivationReport, now time.Time) error {
	var b strings.Builder

	fmt.Fprintf(&b, "activated %s (entry %s)\n", report.Entry.DisplayLabel(), report.Entry.ID)
	switch {
	case !report.ServiceAvailable:
		b.WriteString("mod service unavailable: mod changes skipped\n")
	case report.Collection.IsNone():
		b.WriteString("no current collection: mod changes skipped\n")
	default:
		fmt.Fprintf(&b, "collection: %s\n", report.Collection.Name)
		for _, mutation := range report.Mutations {
			fmt.Fprintf(&b, "  %-8s %s [%s]\n", mutation.State, mutation.ModName, mutationOutcome(mutation))
		}
	}

	if report.Command != "" {
		fmt.Fprintf(&b, "command: %s\n", report.Command)
	}
	if report.Pending != nil {
		fmt.Fprintf(&b, "scheduled: %s in %s\n", report.Pending.Text, report.Pending.Due.Sub(now).Round(time.Millisecond))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func mutationOutcome(mutation application.Mutation) string {
	switch {
	case !mutation.Resolved:
		return "not in catalog"
	case mutation.Applied:
		return "ok"
	default:
		return "failed"
	}
}
