package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colmreid/readlater/internal/event"
)

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a session and delete its calendar event",
		Long: `Delete the event from the remote calendar, then mark the local row
archived. If the remote delete fails, nothing changes locally.`,
		Args:          cobra.ExactArgs(1),
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

			if err := a.manager.ArchiveEvent(cmd.Context(), acct, args[0]); err != nil {
				_ = a.out.Failure(err)
				return operationError("archive event", err)
			}
			return a.out.Message("archived " + args[0])
		},
	}
	return cmd
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore an archived session to the calendar",
		Long: `Recreate an archived session on the remote calendar. The service assigns
a fresh id: the archived row is replaced by a new scheduled row and the
old id stops existing.`,
		Args:          cobra.ExactArgs(1),
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

			ctx := cmd.Context()
			archived, err := a.store.GetByID(ctx, args[0])
			if err != nil {
				_ = a.out.Failure(err)
				return operationError("restore event", err)
			}
			if archived.Status != event.StatusArchived {
				err := fmt.Errorf("event %s is %s, only archived events can be restored", archived.ID, archived.Status)
				_ = a.out.Failure(err)
				return WrapExitError(ExitCommandError, "restore event", err)
			}

			newID, err := a.manager.RestoreFromArchive(ctx, acct, archived)
			if err != nil {
				_ = a.out.Failure(err)
				return operationError("restore event", err)
			}
			return a.out.Message(fmt.Sprintf("restored %s as %s", args[0], newID))
		},
	}
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a local row",
		Long: `Remove the local row for good. No remote call is made: the calendar
event is assumed already gone (archived earlier, or found deleted by
sync). Scheduled events must be archived first so the calendar copy is
cleaned up.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			row, err := a.store.GetByID(ctx, args[0])
			if err != nil {
				_ = a.out.Failure(err)
				return operationError("delete event", err)
			}
			if row.Status == event.StatusScheduled {
				err := fmt.Errorf("event %s is still scheduled; archive it first", row.ID)
				_ = a.out.Failure(err)
				return WrapExitError(ExitCommandError, "delete event", err)
			}

			if err := a.manager.DeleteEventPermanently(ctx, args[0]); err != nil {
				_ = a.out.Failure(err)
				return operationError("delete event", err)
			}
			return a.out.Message("deleted " + args[0])
		},
	}
	return cmd
}
