package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/colmreid/readlater/internal/event"
)

// GetByID returns the event with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (event.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = ?
	`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListAll returns every row, in insertion-independent id order.
// Used by the sync pass and the ICS export.
func (s *Store) ListAll(ctx context.Context) ([]event.Event, error) {
	return s.list(ctx, `
		SELECT `+eventColumns+` FROM events ORDER BY id COLLATE BINARY ASC
	`)
}

// ListScheduled returns scheduled events ordered by start time ascending,
// so overdue events sort first.
func (s *Store) ListScheduled(ctx context.Context) ([]event.Event, error) {
	return s.list(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE status = ?
		ORDER BY scheduled_at ASC, id COLLATE BINARY ASC
	`, string(event.StatusScheduled))
}

// ListCompleted returns completed events, most recently completed first.
func (s *Store) ListCompleted(ctx context.Context) ([]event.Event, error) {
	return s.list(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE status = ?
		ORDER BY completed_at DESC, id COLLATE BINARY ASC
	`, string(event.StatusCompleted))
}

// ListArchived returns archived events, most recently archived first.
func (s *Store) ListArchived(ctx context.Context) ([]event.Event, error) {
	return s.list(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE status = ?
		ORDER BY archived_at DESC, id COLLATE BINARY ASC
	`, string(event.StatusArchived))
}

// CountScheduledBetween counts scheduled events with start >= from and
// start < to. The summary uses this with the bounds of the local calendar day.
func (s *Store) CountScheduledBetween(ctx context.Context, from, to time.Time) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(*) FROM events
		WHERE status = ? AND scheduled_at >= ? AND scheduled_at < ?
	`, string(event.StatusScheduled), toMillis(from), toMillis(to))
}

// CountOverdue counts scheduled events whose start time has already passed.
func (s *Store) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(*) FROM events
		WHERE status = ? AND scheduled_at < ?
	`, string(event.StatusScheduled), toMillis(now))
}

// NextScheduledAfter returns the earliest scheduled event strictly after now,
// or ErrNotFound if there is none.
func (s *Store) NextScheduledAfter(ctx context.Context, now time.Time) (event.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE status = ? AND scheduled_at > ?
		ORDER BY scheduled_at ASC, id COLLATE BINARY ASC
		LIMIT 1
	`, string(event.StatusScheduled), toMillis(now))

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("next scheduled: %w", err)
	}
	return e, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	// Return empty slice instead of nil
	if events == nil {
		events = []event.Event{}
	}
	return events, nil
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
