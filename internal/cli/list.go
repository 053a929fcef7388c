package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colmreid/readlater/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Follow bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list [scheduled|completed|archived|all]",
		Short: "List saved events",
		Long: `List events by lifecycle state. Scheduled events sort by start time
(overdue first), completed and archived by when they got there, newest
first.

With --follow the listing is re-printed every time the store changes,
until interrupted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "scheduled"
			if len(args) == 1 {
				which = args[0]
			}
			return runList(opts, which, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Follow, "follow", false, "keep printing as the store changes")

	return cmd
}

func runList(opts *ListOptions, which string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	query, err := queryFor(a.store, which)
	if err != nil {
		return WrapExitError(ExitCommandError, "list events", err)
	}

	ctx := cmd.Context()

	if opts.Follow {
		return followList(ctx, a, query)
	}

	events, err := query(ctx)
	if err != nil {
		_ = a.out.Failure(err)
		return operationError("list events", err)
	}
	return a.out.Events(events)
}

// queryFor maps the positional selector onto a store query.
func queryFor(s *store.Store, which string) (store.Query, error) {
	switch which {
	case "scheduled":
		return s.ListScheduled, nil
	case "completed":
		return s.ListCompleted, nil
	case "archived":
		return s.ListArchived, nil
	case "all":
		return s.ListAll, nil
	default:
		return nil, fmt.Errorf("unknown selector %q: want scheduled, completed, archived, or all", which)
	}
}

// followList subscribes to the query and re-renders on every change until
// the context is cancelled.
func followList(ctx context.Context, a *app, query store.Query) error {
	ch, err := a.store.Watch(ctx, query)
	if err != nil {
		_ = a.out.Failure(err)
		return operationError("watch events", err)
	}

	for events := range ch {
		if err := a.out.Events(events); err != nil {
			return err
		}
	}
	return nil
}
