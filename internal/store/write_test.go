package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/colmreid/readlater/internal/event"
)

func TestInsert_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := testEvent("ev-1", time.Hour)
	if err := s.Insert(ctx, want); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	got, err := s.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if got.Status != event.StatusScheduled {
		t.Errorf("status = %q, want %q", got.Status, event.StatusScheduled)
	}
	if got.CompletedAt != nil || got.ArchivedAt != nil {
		t.Errorf("new row has lifecycle stamps: completedAt=%v archivedAt=%v", got.CompletedAt, got.ArchivedAt)
	}
	if !got.ScheduledAt.Equal(want.ScheduledAt) {
		t.Errorf("scheduledAt = %v, want %v", got.ScheduledAt, want.ScheduledAt)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.Title != want.Title || got.URL != want.URL || got.DurationMinutes != want.DurationMinutes {
		t.Errorf("row = %+v, want %+v", got, want)
	}
}

func TestInsert_DuplicateIDIgnored(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := testEvent("ev-1", time.Hour)
	if err := s.Insert(ctx, first); err != nil {
		t.Fatalf("first Insert() failed: %v", err)
	}

	second := testEvent("ev-1", 2*time.Hour)
	second.Title = "changed"
	if err := s.Insert(ctx, second); err != nil {
		t.Fatalf("duplicate Insert() failed: %v", err)
	}

	got, err := s.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Title != first.Title {
		t.Errorf("duplicate insert overwrote row: title = %q", got.Title)
	}
}

func TestInsert_RejectsInvalidEvent(t *testing.T) {
	s := openTestStore(t)

	bad := testEvent("ev-1", time.Hour)
	bad.DurationMinutes = 0
	if err := s.Insert(context.Background(), bad); err == nil {
		t.Fatal("Insert() accepted zero duration")
	}
}

func TestMarkCompleted_SetsStatusAndStamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testEvent("ev-1", time.Hour)); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	done := testBase.Add(90 * time.Minute)
	if err := s.MarkCompleted(ctx, "ev-1", done); err != nil {
		t.Fatalf("MarkCompleted() failed: %v", err)
	}

	got, err := s.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Status != event.StatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, event.StatusCompleted)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("completedAt = %v, want %v", got.CompletedAt, done)
	}
}

func TestUndoComplete_RestoresScheduledRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	orig := testEvent("ev-1", time.Hour)
	if err := s.Insert(ctx, orig); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if err := s.MarkCompleted(ctx, "ev-1", testBase.Add(time.Hour)); err != nil {
		t.Fatalf("MarkCompleted() failed: %v", err)
	}
	if err := s.UndoComplete(ctx, "ev-1"); err != nil {
		t.Fatalf("UndoComplete() failed: %v", err)
	}

	got, err := s.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Status != event.StatusScheduled {
		t.Errorf("status = %q, want %q", got.Status, event.StatusScheduled)
	}
	if got.CompletedAt != nil {
		t.Errorf("completedAt = %v, want nil", got.CompletedAt)
	}
	// Complete-then-undo must restore the pre-complete row.
	if got.Title != orig.Title || !got.ScheduledAt.Equal(orig.ScheduledAt) || got.DurationMinutes != orig.DurationMinutes {
		t.Errorf("row after undo = %+v, want %+v", got, orig)
	}
}

func TestMarkArchived_SetsStatusAndStamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testEvent("ev-1", time.Hour)); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	at := testBase.Add(2 * time.Hour)
	if err := s.MarkArchived(ctx, "ev-1", at); err != nil {
		t.Fatalf("MarkArchived() failed: %v", err)
	}

	got, err := s.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Status != event.StatusArchived {
		t.Errorf("status = %q, want %q", got.Status, event.StatusArchived)
	}
	if got.ArchivedAt == nil || !got.ArchivedAt.Equal(at) {
		t.Errorf("archivedAt = %v, want %v", got.ArchivedAt, at)
	}
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testEvent("ev-1", time.Hour)); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if err := s.SetStatus(ctx, "ev-1", event.Status("bogus")); err == nil {
		t.Fatal("SetStatus() accepted unknown status")
	}
}

func TestUpdateSchedule_ChangesTimeAndDurationOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testEvent("ev-1", time.Hour)); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	newStart := testBase.Add(48 * time.Hour)
	if err := s.UpdateSchedule(ctx, "ev-1", newStart, 45); err != nil {
		t.Fatalf("UpdateSchedule() failed: %v", err)
	}

	got, err := s.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if !got.ScheduledAt.Equal(newStart) || got.DurationMinutes != 45 {
		t.Errorf("schedule = (%v, %d), want (%v, 45)", got.ScheduledAt, got.DurationMinutes, newStart)
	}
	if got.Status != event.StatusScheduled {
		t.Errorf("status changed to %q", got.Status)
	}
}

func TestDelete_RemovesRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testEvent("ev-1", time.Hour)); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if err := s.Delete(ctx, "ev-1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := s.GetByID(ctx, "ev-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestMutations_MissingRowReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := testBase

	cases := map[string]error{
		"MarkCompleted":  s.MarkCompleted(ctx, "missing", at),
		"UndoComplete":   s.UndoComplete(ctx, "missing"),
		"MarkArchived":   s.MarkArchived(ctx, "missing", at),
		"SetStatus":      s.SetStatus(ctx, "missing", event.StatusDeletedFromCalendar),
		"UpdateSchedule": s.UpdateSchedule(ctx, "missing", at, 30),
		"Delete":         s.Delete(ctx, "missing"),
	}
	for name, err := range cases {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s on missing row = %v, want ErrNotFound", name, err)
		}
	}
}
