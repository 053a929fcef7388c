package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/colmreid/readlater/internal/calendar"
	"github.com/colmreid/readlater/internal/event"
	"github.com/colmreid/readlater/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // operation failed (remote rejected, row missing, ...)
	ExitCommandError = 2 // command error (bad flags, unreadable config, ...)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error carries no explicit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// operationError classifies a lifecycle failure for exit-code purposes and
// keeps the typed cause in the chain for rendering.
func operationError(message string, err error) error {
	code := ExitFailure
	if errors.Is(err, store.ErrNotFound) {
		code = ExitCommandError
	}
	return WrapExitError(code, message, err)
}

// result is the JSON document emitted with --format json.
type result struct {
	Status  string         `json:"status"` // "ok" or "error"
	Message string         `json:"message,omitempty"`
	Events  []eventRow     `json:"events,omitempty"`
	Error   *errorDocument `json:"error,omitempty"`
}

type errorDocument struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"` // gateway failure code when present
}

// eventRow is the transport shape of one event for JSON output.
type eventRow struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
}

func toRows(events []event.Event) []eventRow {
	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, eventRow{
			ID:              e.ID,
			Title:           e.Title,
			URL:             e.URL,
			ScheduledAt:     e.ScheduledAt,
			DurationMinutes: e.DurationMinutes,
			Status:          string(e.Status),
			CompletedAt:     e.CompletedAt,
			ArchivedAt:      e.ArchivedAt,
		})
	}
	return rows
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format   string
	Writer   io.Writer
	Location *time.Location // timezone for rendered times, nil means local
}

func (f *OutputFormatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Message emits a one-line success message.
func (f *OutputFormatter) Message(msg string) error {
	if f.Format == "json" {
		return f.emit(result{Status: "ok", Message: msg})
	}
	_, err := fmt.Fprintln(f.Writer, msg)
	return err
}

// Events emits a list of events, as a table in text mode.
func (f *OutputFormatter) Events(events []event.Event) error {
	if f.Format == "json" {
		return f.emit(result{Status: "ok", Events: toRows(events)})
	}
	return renderEventTable(f.Writer, events, f.location())
}

// Failure emits an error document. Gateway failures keep their code so
// scripts can branch on it.
func (f *OutputFormatter) Failure(err error) error {
	if f.Format != "json" {
		_, werr := fmt.Fprintf(f.Writer, "error: %v\n", err)
		return werr
	}

	doc := &errorDocument{Message: err.Error()}
	var ce *calendar.CallError
	if errors.As(err, &ce) {
		doc.Code = string(ce.Code)
	}
	return f.emit(result{Status: "error", Error: doc})
}

func (f *OutputFormatter) emit(r result) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// renderEventTable writes the text listing. Times render in the given
// timezone at minute precision.
func renderEventTable(w io.Writer, events []event.Event, loc *time.Location) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "no events.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tMIN\tSTATUS\tTITLE\tURL")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			e.ID,
			e.ScheduledAt.In(loc).Format("2006-01-02 15:04"),
			e.DurationMinutes,
			e.Status,
			e.Title,
			e.URL,
		)
	}
	return tw.Flush()
}
