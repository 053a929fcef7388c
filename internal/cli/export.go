package cli

import (
	"fmt"
	"io"
	"os"

	ics "github.com/arran4/golang-ical"
	"github.com/spf13/cobra"

	"github.com/colmreid/readlater/internal/event"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved events as an iCalendar file",
		Long: `Write every local row as a VEVENT. Completed and archived sessions are
exported with their lifecycle stamp in the description, so the export is
a full snapshot of local state, not just the upcoming calendar.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	events, err := a.store.ListAll(cmd.Context())
	if err != nil {
		_ = a.out.Failure(err)
		return operationError("export events", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "create output file", err)
		}
		defer f.Close()
		w = f
	}

	if err := writeICS(w, events); err != nil {
		return operationError("export events", err)
	}
	if opts.Output != "" {
		return a.out.Message(fmt.Sprintf("exported %d events to %s", len(events), opts.Output))
	}
	return nil
}

// writeICS serializes events as a VCALENDAR.
func writeICS(w io.Writer, events []event.Event) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//readlater//readlater//EN")

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetStartAt(e.ScheduledAt)
		ve.SetEndAt(e.EndsAt())
		ve.SetSummary(e.Title)
		ve.SetURL(e.URL)
		ve.SetDescription(describeStatus(e))
	}

	return cal.SerializeTo(w)
}

func describeStatus(e event.Event) string {
	switch e.Status {
	case event.StatusCompleted:
		return fmt.Sprintf("%s (completed %s)", e.URL, e.CompletedAt.Format("2006-01-02 15:04"))
	case event.StatusArchived:
		return fmt.Sprintf("%s (archived %s)", e.URL, e.ArchivedAt.Format("2006-01-02 15:04"))
	case event.StatusDeletedFromCalendar:
		return e.URL + " (deleted from calendar)"
	default:
		return e.URL
	}
}
