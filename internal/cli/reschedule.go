package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RescheduleOptions holds flags shared by reschedule and again.
type RescheduleOptions struct {
	*RootOptions
	At       string
	Duration int
}

// NewRescheduleCommand creates the reschedule command.
func NewRescheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RescheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reschedule <id>",
		Short: "Move a session to a new time",
		Long: `Move the remote calendar event to a new start time and duration, then
update the local schedule. Status is untouched; a remote failure leaves
the local schedule as it was.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReschedule(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "new start time (required)")
	cmd.Flags().IntVar(&opts.Duration, "duration", 30, "session length in minutes")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func runReschedule(opts *RescheduleOptions, id string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	acct, err := a.account()
	if err != nil {
		return err
	}

	at, err := a.parseAt(opts.At)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --at", err)
	}

	if err := a.manager.RescheduleEvent(cmd.Context(), acct, id, at, opts.Duration); err != nil {
		_ = a.out.Failure(err)
		return operationError("reschedule event", err)
	}
	return a.out.Message(fmt.Sprintf("rescheduled %s to %s", id, at.Format("2006-01-02 15:04")))
}

// NewAgainCommand creates the again command.
func NewAgainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RescheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "again <id>",
		Short: "Schedule a completed session again",
		Long: `Create a fresh calendar event and local row reusing a completed
session's title and url. The completed row is left untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgain(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "new start time (required)")
	cmd.Flags().IntVar(&opts.Duration, "duration", 30, "session length in minutes")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func runAgain(opts *RescheduleOptions, id string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	acct, err := a.account()
	if err != nil {
		return err
	}

	at, err := a.parseAt(opts.At)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --at", err)
	}

	ctx := cmd.Context()
	original, err := a.store.GetByID(ctx, id)
	if err != nil {
		_ = a.out.Failure(err)
		return operationError("schedule again", err)
	}

	newID, err := a.manager.ScheduleAgain(ctx, acct, original, at, opts.Duration)
	if err != nil {
		_ = a.out.Failure(err)
		return operationError("schedule again", err)
	}
	return a.out.Message(fmt.Sprintf("scheduled %s again as %s for %s", id, newID, at.Format("2006-01-02 15:04")))
}
