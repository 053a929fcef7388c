package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the reconciliation pass on a schedule",
		Long: `Stay resident and run "sync" on the sync_cron schedule from the config
file, until interrupted. One pass also runs immediately at startup.

Example:
  readlater watch --config readlater.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, cmd)
		},
	}
	return cmd
}

func runWatch(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	acct, err := a.account()
	if err != nil {
		return err
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	pass := func() {
		if err := a.manager.SyncWithCalendar(ctx, acct); err != nil {
			slog.Error("sync pass failed", "error", err)
			return
		}
		slog.Info("sync pass complete")
	}

	slog.Info("starting watch", "schedule", a.cfg.SyncCron)
	pass()

	c := cron.New()
	if _, err := c.AddFunc(a.cfg.SyncCron, pass); err != nil {
		return WrapExitError(ExitCommandError, "invalid sync_cron schedule", err)
	}
	c.Start()

	<-ctx.Done()
	// Let an in-flight pass finish before returning.
	<-c.Stop().Done()
	return nil
}
