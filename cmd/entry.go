package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Manage mod entries",
	}

	cmd.AddCommand(
		newEntryListCmd(app),
		newEntryAddCmd(app),
		newEntryRemoveCmd(app),
	)

	return cmd
}

func newEntryListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.entries.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, entry := range entries {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), formatEntryLine(entry))
			}

			return nil
		},
	}
}

func newEntryAddCmd(app *app) *cobra.Command {
	var (
		entryID string
		add     application.AddEntryCommand
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace an entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			add.ID = domain.EntryID(entryID)

			entry, warnings, err := app.entries.Add(cmd.Context(), add)
			if err != nil {
				return err
			}

			for _, warning := range warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", formatEntryLine(entry))
			return err
		},
	}

	cmd.Flags().StringVar(&entryID, "id", "0", "Entry ID (0 or empty auto-assigns next: 1,2,...)")
	cmd.Flags().StringVar(&add.ModName, "mod", "", "Mod name as shown by the mod service")
	cmd.Flags().StringVar(&add.Label, "label", "", "Label (default: mod name)")
	cmd.Flags().StringVar(&add.Animation, "animation", "", "Animation command without the slash, e.g. sit")
	cmd.Flags().IntVar(&add.Pose, "pose", 0, "Pose index selected after the animation (0 keeps the current pose)")
	cmd.Flags().StringVar(&add.Category, "category", "", "Category used to group entries")
	_ = cmd.MarkFlagRequired("mod")

	return cmd
}

func newEntryRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry>",
		Short: "Remove an entry by id, label or mod name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.entries.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", formatEntryLine(entry))
			return err
		},
	}
}

func formatEntryLine(entry domain.ModEntry) string {
	fields := []string{string(entry.ID), entry.DisplayLabel(), entry.ModName}
	if entry.HasAnimation() {
		animation := "/" + entry.Animation
		if entry.Pose > 0 {
			animation = fmt.Sprintf("%s pose %d", animation, entry.Pose)
		}
		fields = append(fields, animation)
	}
	if entry.Category != "" {
		fields = append(fields, "["+entry.Category+"]")
	}

	return strings.Join(fields, "\t")
}
