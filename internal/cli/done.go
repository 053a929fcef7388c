package cli

import (
	"github.com/spf13/cobra"
)

// NewDoneCommand creates the done command.
func NewDoneCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a reading session completed",
		Long: `Mark a scheduled session completed. Local-only: the calendar event is
left in place. Reversible with "readlater undo".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.manager.MarkAsCompleted(cmd.Context(), args[0]); err != nil {
				_ = a.out.Failure(err)
				return operationError("mark completed", err)
			}
			return a.out.Message("completed " + args[0])
		},
	}
	return cmd
}

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "undo <id>",
		Short:         "Move a completed session back to scheduled",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.manager.UndoComplete(cmd.Context(), args[0]); err != nil {
				_ = a.out.Failure(err)
				return operationError("undo complete", err)
			}
			return a.out.Message("rescheduled " + args[0])
		},
	}
	return cmd
}
