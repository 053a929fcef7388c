package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/colmreid/readlater/internal/event"
)

// openTestStore opens a fresh store in a temp dir and closes it on cleanup.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testEvent builds a valid scheduled event. The schedule is relative to a
// fixed instant so tests are not sensitive to wall-clock time.
var testBase = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func testEvent(id string, startOffset time.Duration) event.Event {
	return event.Event{
		ID:              id,
		Title:           "article " + id,
		URL:             "https://example.com/" + id,
		ScheduledAt:     testBase.Add(startOffset),
		DurationMinutes: 30,
		CreatedAt:       testBase,
		Status:          event.StatusScheduled,
	}
}
