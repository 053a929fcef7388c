package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Title    string
	At       string
	Duration int
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <url>",
		Short: "Schedule a link as a reading session",
		Long: `Create a reading session for a link: the event is created on the remote
calendar first, and only once the service has assigned it an id is the
local row written.

Example:
  readlater save https://example.com/post --title "long read" --at "2025-03-12 18:00" --duration 30`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "event title (defaults to the url)")
	cmd.Flags().StringVar(&opts.At, "at", "", "start time, e.g. \"2025-03-12 18:00\" (required)")
	cmd.Flags().IntVar(&opts.Duration, "duration", 30, "session length in minutes")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func runSave(opts *SaveOptions, url string, cmd *cobra.Command) error {
	if opts.Duration <= 0 {
		return WrapExitError(ExitCommandError, "invalid flags", fmt.Errorf("--duration must be positive"))
	}

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

	title := opts.Title
	if title == "" {
		title = url
	}

	ctx := cmd.Context()

	// Remote first: the service assigns the id the local row is keyed by.
	id, err := a.gateway.Create(ctx, acct, title, url, at, opts.Duration)
	if err != nil {
		_ = a.out.Failure(err)
		return operationError("create calendar event", err)
	}

	if err := a.manager.SaveEvent(ctx, id, title, url, at, opts.Duration); err != nil {
		_ = a.out.Failure(err)
		return operationError("save event", err)
	}

	return a.out.Message(fmt.Sprintf("saved %s for %s (id %s)", title, at.Format("2006-01-02 15:04"), id))
}
