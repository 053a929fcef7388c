package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/colmreid/readlater/internal/calendar"
	"github.com/colmreid/readlater/internal/event"
	"github.com/colmreid/readlater/internal/store"
)

// DefaultSyncWorkers is how many remote lookups a sync pass runs at once.
// Lookups are read-only and independent, so a small pool is safe; each
// row's status write happens only after that row's own lookup returns.
const DefaultSyncWorkers = 4

// Manager orchestrates event lifecycle transitions across the local store
// and the remote calendar gateway.
//
// Callers are expected to issue operations on a given event id sequentially:
// one user action completes or fails before the next is issued for that row.
// The manager does not defend against concurrent mutation of the same id.
type Manager struct {
	store   *store.Store
	gateway calendar.Gateway
	clock   Clock
	loc     *time.Location
	logger  *slog.Logger
	workers int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock (tests pin it with FixedClock).
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLocation sets the timezone whose calendar days the summary uses.
// Defaults to time.Local, matching "device-local day" semantics.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) { m.loc = loc }
}

// WithLogger overrides the logger used for per-row sync diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithSyncWorkers sets the sync pass lookup concurrency.
func WithSyncWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

// New creates a Manager over the given store and gateway.
func New(s *store.Store, g calendar.Gateway, opts ...Option) *Manager {
	m := &Manager{
		store:   s,
		gateway: g,
		clock:   SystemClock{},
		loc:     time.Local,
		logger:  slog.Default(),
		workers: DefaultSyncWorkers,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SaveEvent inserts a new scheduled row for an event the caller has already
// created on the remote calendar. remoteID is the id the service assigned.
//
// This is the local half of the save flow; it has no remote call and no
// failure path beyond validation.
func (m *Manager) SaveEvent(ctx context.Context, remoteID, title, url string, scheduledAt time.Time, durationMinutes int) error {
	e := event.Event{
		ID:              remoteID,
		Title:           title,
		URL:             url,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
		CreatedAt:       m.clock.Now(),
		Status:          event.StatusScheduled,
	}
	if err := m.store.Insert(ctx, e); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// MarkAsCompleted transitions a row to completed and stamps completedAt.
// Local-only: the remote calendar event stays in place.
func (m *Manager) MarkAsCompleted(ctx context.Context, id string) error {
	if err := m.store.MarkCompleted(ctx, id, m.clock.Now()); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// UndoComplete moves a completed row back to scheduled and clears
// completedAt. Local-only.
func (m *Manager) UndoComplete(ctx context.Context, id string) error {
	if err := m.store.UndoComplete(ctx, id); err != nil {
		return fmt.Errorf("undo complete: %w", err)
	}
	return nil
}

// ArchiveEvent deletes the event from the remote calendar and, only once
// that succeeds, marks the local row archived. A remote failure leaves the
// row untouched so a still-existing remote event is never orphaned.
func (m *Manager) ArchiveEvent(ctx context.Context, account calendar.Account, id string) error {
	if err := m.gateway.Delete(ctx, account, id); err != nil {
		return fmt.Errorf("archive event %s: %w", id, err)
	}
	if err := m.store.MarkArchived(ctx, id, m.clock.Now()); err != nil {
		return fmt.Errorf("archive event %s: %w", id, err)
	}
	return nil
}

// RestoreFromArchive recreates an archived event on the remote calendar.
// On success the archived row is deleted and a fresh scheduled row is
// inserted under the new remote id, which is returned. If the remote create
// fails, the archived row is untouched.
func (m *Manager) RestoreFromArchive(ctx context.Context, account calendar.Account, archived event.Event) (string, error) {
	newID, err := m.gateway.Create(ctx, account, archived.Title, archived.URL, archived.ScheduledAt, archived.DurationMinutes)
	if err != nil {
		return "", fmt.Errorf("restore event %s: %w", archived.ID, err)
	}

	if err := m.store.Delete(ctx, archived.ID); err != nil {
		return "", fmt.Errorf("restore event %s: drop archived row: %w", archived.ID, err)
	}
	if err := m.SaveEvent(ctx, newID, archived.Title, archived.URL, archived.ScheduledAt, archived.DurationMinutes); err != nil {
		return "", fmt.Errorf("restore event %s: %w", archived.ID, err)
	}
	return newID, nil
}

// DeleteEventPermanently removes the row unconditionally. No remote call:
// the remote event is assumed already gone (previously archived or deleted
// from the calendar).
func (m *Manager) DeleteEventPermanently(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// RescheduleEvent moves the remote event to a new window and, only once
// that succeeds, updates the local row's schedule. Status is unaffected.
func (m *Manager) RescheduleEvent(ctx context.Context, account calendar.Account, id string, newTime time.Time, durationMinutes int) error {
	if err := m.gateway.Update(ctx, account, id, newTime, durationMinutes); err != nil {
		return fmt.Errorf("reschedule event %s: %w", id, err)
	}
	if err := m.store.UpdateSchedule(ctx, id, newTime, durationMinutes); err != nil {
		return fmt.Errorf("reschedule event %s: %w", id, err)
	}
	return nil
}

// ScheduleAgain creates a brand-new remote event with the original's title
// and url at a new time, then inserts a new scheduled row under the new
// remote id. The original (completed) row is left exactly as it is.
func (m *Manager) ScheduleAgain(ctx context.Context, account calendar.Account, original event.Event, newTime time.Time, durationMinutes int) (string, error) {
	newID, err := m.gateway.Create(ctx, account, original.Title, original.URL, newTime, durationMinutes)
	if err != nil {
		return "", fmt.Errorf("schedule again from %s: %w", original.ID, err)
	}
	if err := m.SaveEvent(ctx, newID, original.Title, original.URL, newTime, durationMinutes); err != nil {
		return "", fmt.Errorf("schedule again from %s: %w", original.ID, err)
	}
	return newID, nil
}
