package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCollectionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Inspect and assign the player's mod collection",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List collections",
			RunE: func(cmd *cobra.Command, _ []string) error {
				collections, err := app.mods.Collections(cmd.Context())
				if err != nil {
					return err
				}

				for _, collection := range collections {
					marker := " "
					if collection.Current {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, collection.Name, collection.ID)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "current",
			Short: "Print the collection applied to the player",
			RunE: func(cmd *cobra.Command, _ []string) error {
				current, err := app.mods.CurrentCollection(cmd.Context())
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", current.Name, current.ID)
				return err
			},
		},
		&cobra.Command{
			Use:   "set <id|name>",
			Short: "Assign a collection to the player",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				assigned, err := app.mods.SetCollection(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "collection: %s\n", assigned.Name)
				return err
			},
		},
	)

	return cmd
}
