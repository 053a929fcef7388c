package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colmreid/readlater/internal/event"
)

// ErrNotFound is returned by mutating operations that matched no row.
var ErrNotFound = errors.New("event not found")

// Insert writes a new event row.
//
// Uses ON CONFLICT(id) DO NOTHING: the remote service owns id allocation, so
// a duplicate insert means the same remote event was saved twice and the
// second write is silently ignored.
func (s *Store) Insert(ctx context.Context, e event.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events
		(id, title, url, scheduled_at, duration_minutes, created_at, status, completed_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Title,
		e.URL,
		toMillis(e.ScheduledAt),
		e.DurationMinutes,
		toMillis(e.CreatedAt),
		string(e.Status),
		toNullMillis(e.CompletedAt),
		toNullMillis(e.ArchivedAt),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	s.hub.notify()
	return nil
}

// MarkCompleted sets status to completed and stamps completed_at.
func (s *Store) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	return s.exec(ctx, `
		UPDATE events SET status = ?, completed_at = ? WHERE id = ?
	`, string(event.StatusCompleted), toMillis(at), id)
}

// UndoComplete moves a completed event back to scheduled and clears
// completed_at.
func (s *Store) UndoComplete(ctx context.Context, id string) error {
	return s.exec(ctx, `
		UPDATE events SET status = ?, completed_at = NULL WHERE id = ?
	`, string(event.StatusScheduled), id)
}

// MarkArchived sets status to archived and stamps archived_at.
func (s *Store) MarkArchived(ctx context.Context, id string, at time.Time) error {
	return s.exec(ctx, `
		UPDATE events SET status = ?, archived_at = ? WHERE id = ?
	`, string(event.StatusArchived), toMillis(at), id)
}

// SetStatus updates only the status column. Used by the sync pass for the
// deleted-from-calendar transition, which carries no timestamp.
func (s *Store) SetStatus(ctx context.Context, id string, status event.Status) error {
	if !status.Valid() {
		return fmt.Errorf("set status: unknown status %q", status)
	}
	return s.exec(ctx, `
		UPDATE events SET status = ? WHERE id = ?
	`, string(status), id)
}

// UpdateSchedule changes an event's start time and duration. Status and the
// completed/archived stamps are untouched.
func (s *Store) UpdateSchedule(ctx context.Context, id string, at time.Time, durationMinutes int) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("update schedule: duration must be positive, got %d", durationMinutes)
	}
	return s.exec(ctx, `
		UPDATE events SET scheduled_at = ?, duration_minutes = ? WHERE id = ?
	`, toMillis(at), durationMinutes, id)
}

// Delete removes the row unconditionally.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.exec(ctx, `DELETE FROM events WHERE id = ?`, id)
}

// exec runs a single-row mutation and maps "no row matched" to ErrNotFound.
func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.hub.notify()
	return nil
}
