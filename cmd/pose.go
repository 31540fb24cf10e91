package cmd

import (
	"fmt"

	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/spf13/cobra"
)

func newPoseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pose [index]",
		Short: "Print the current pose index, or cycle poses until index is reached",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			poses := app.pipeline.poses

			if len(args) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "pose: %d\n", poses.CurrentPose(ctx))
				return err
			}

			target, err := application.ParsePoseIndex(args[0])
			if err != nil {
				return err
			}

			result, err := poses.ConvergeTo(ctx, target)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pose: %d (%d cycle commands)\n", result.Final, result.Commands)
			return err
		},
	}
}
