package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wardrobe",
		Short:         "Animation wardrobe: switch animation mods and play their emotes",
		Long:          "wardrobe activates configured mod entries: it enables the entry's mod, disables the other mods bound to the same animation, plays the animation and selects a pose once it has settled.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.logCloser.Close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newActivateCmd(app),
		newPoseCmd(app),
		newEntryCmd(app),
		newModsCmd(app),
		newCollectionCmd(app),
		newStatusCmd(app),
		newWaitCmd(app),
		newRunCmd(app),
	)

	return rootCmd
}
