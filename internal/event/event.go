package event

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a saved event.
//
// Transitions are owned by the lifecycle manager; nothing else writes status.
// Stored as TEXT in SQLite, so the values are part of the on-disk format and
// must not be renamed.
type Status string

const (
	// StatusScheduled is the initial state: the event exists locally and on
	// the remote calendar and has not been acted on.
	StatusScheduled Status = "scheduled"

	// StatusCompleted means the user marked the reading session done.
	// The remote calendar event is left in place.
	StatusCompleted Status = "completed"

	// StatusArchived means the user archived the event. The remote calendar
	// event has been deleted; the local row is kept as a soft delete.
	StatusArchived Status = "archived"

	// StatusDeletedFromCalendar means a sync pass discovered the remote
	// event no longer exists (deleted externally).
	StatusDeletedFromCalendar Status = "deleted_from_calendar"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusArchived, StatusDeletedFromCalendar:
		return true
	}
	return false
}

// ParseStatus converts a stored string back into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown event status %q", raw)
	}
	return s, nil
}

// Event is a saved read-later session.
//
// ID is the identifier assigned by the remote calendar service and doubles
// as the local primary key. It is stable across reschedules but replaced
// whenever the event is recreated remotely (restore from archive, schedule
// again) - ids are never reused across a lifecycle restart.
type Event struct {
	ID              string
	Title           string // may be empty
	URL             string // free text, not required to parse
	ScheduledAt     time.Time
	DurationMinutes int
	CreatedAt       time.Time // set once at insert, immutable
	Status          Status
	CompletedAt     *time.Time // set iff Status == StatusCompleted
	ArchivedAt      *time.Time // set iff Status == StatusArchived
}

// EndsAt returns the end of the reading session.
func (e Event) EndsAt() time.Time {
	return e.ScheduledAt.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// Validate checks the structural invariants every persisted row must hold:
// non-empty id, positive duration, a known status, and the completed/archived
// timestamps consistent with that status (at most one set, and only for the
// matching status).
func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is empty")
	}
	if e.DurationMinutes <= 0 {
		return fmt.Errorf("event %s: duration must be positive, got %d", e.ID, e.DurationMinutes)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("event %s: unknown status %q", e.ID, e.Status)
	}
	if e.CompletedAt != nil && e.ArchivedAt != nil {
		return fmt.Errorf("event %s: completedAt and archivedAt both set", e.ID)
	}
	if (e.Status == StatusCompleted) != (e.CompletedAt != nil) {
		return fmt.Errorf("event %s: status %q inconsistent with completedAt", e.ID, e.Status)
	}
	if (e.Status == StatusArchived) != (e.ArchivedAt != nil) {
		return fmt.Errorf("event %s: status %q inconsistent with archivedAt", e.ID, e.Status)
	}
	return nil
}
