package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/colmreid/readlater/internal/event"
)

// Timestamps are stored as epoch milliseconds, matching the millisecond
// precision of the domain model. Conversions always round-trip exactly.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const eventColumns = "id, title, url, scheduled_at, duration_minutes, created_at, status, completed_at, archived_at"

// scanEvent reads one row in eventColumns order.
func scanEvent(s scanner) (event.Event, error) {
	var (
		e           event.Event
		scheduledAt int64
		createdAt   int64
		status      string
		completedAt sql.NullInt64
		archivedAt  sql.NullInt64
	)

	err := s.Scan(
		&e.ID,
		&e.Title,
		&e.URL,
		&scheduledAt,
		&e.DurationMinutes,
		&createdAt,
		&status,
		&completedAt,
		&archivedAt,
	)
	if err != nil {
		return event.Event{}, err
	}

	parsed, err := event.ParseStatus(status)
	if err != nil {
		return event.Event{}, fmt.Errorf("row %s: %w", e.ID, err)
	}

	e.ScheduledAt = fromMillis(scheduledAt)
	e.CreatedAt = fromMillis(createdAt)
	e.Status = parsed
	e.CompletedAt = fromNullMillis(completedAt)
	e.ArchivedAt = fromNullMillis(archivedAt)
	return e, nil
}
