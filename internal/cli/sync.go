package cli

import (
	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local rows with the remote calendar",
		Long: `Ask the calendar service about every row that is not completed or
archived, and mark the rows whose event no longer exists as deleted
from the calendar. Individual lookup failures are logged and skipped;
only overall completion is reported.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			acct, err := a.account()
			if err != nil {
				return err
			}

			if err := a.manager.SyncWithCalendar(cmd.Context(), acct); err != nil {
				_ = a.out.Failure(err)
				return operationError("sync with calendar", err)
			}
			return a.out.Message("sync complete")
		},
	}
	return cmd
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "summary",
		Short:         "One-line summary of today's reading",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			msg, err := a.manager.SummaryMessage(cmd.Context())
			if err != nil {
				_ = a.out.Failure(err)
				return operationError("summary", err)
			}
			return a.out.Message(msg)
		},
	}
	return cmd
}
