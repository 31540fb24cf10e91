package cmd

import (
	"fmt"

	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/spf13/cobra"
)

func newModsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mods",
		Short: "Inspect and change mods in the current collection",
	}

	cmd.AddCommand(
		newModsListCmd(app),
		newModsSetCmd(app),
		newModsChangedCmd(app),
	)

	return cmd
}

func newModsListCmd(app *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed mods",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mods, err := app.mods.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			for _, mod := range mods {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", mod.Name, mod.ID)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list mods whose name or directory contains this text")

	return cmd
}

func newModsSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <mod> <enable|disable|toggle|inherit>",
		Short: "Set one mod's state in the current collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := domain.ParseModState(args[1])
			if err != nil {
				return err
			}

			mutation, err := app.mods.SetState(cmd.Context(), application.SetModStateCommand{
				ModName: args[0],
				State:   state,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", mutation.ModName, mutation.State)
			return err
		},
	}
}

func newModsChangedCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "changed <mod>",
		Short: "List the items a mod changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.mods.Changed(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}
}
