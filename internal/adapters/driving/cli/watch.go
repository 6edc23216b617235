package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the dropzone and process files as they arrive",
	Long: `Starts the daemon loop: watches the configured dropzone directory,
processes files already present, and then handles new files as they settle.
Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(settings, true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("floatd watching %s\n", settings.Dropzone)
	if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	status := svc.Status()
	cmd.Printf("stopped: %d processed, %d skipped, %d failed\n",
		status.Processed, status.Skipped, status.Failed)
	return nil
}
