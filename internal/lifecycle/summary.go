package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/colmreid/readlater/internal/store"
)

var lowercase = cases.Lower(language.English)

// SummaryMessage derives the one-line header sentence from the scheduled
// rows. Exactly one of six branches applies:
//
//  1. nothing today, nothing overdue, nothing upcoming
//  2. nothing today, nothing overdue, next event on a future day
//  3. events today, nothing overdue
//  4. events today and overdue events
//  5. overdue events only
//  6. fallback - unreachable under the branches above, kept as a default
//
// "Today" is the calendar day containing the current instant in the
// manager's configured location.
func (m *Manager) SummaryMessage(ctx context.Context) (string, error) {
	now := m.clock.Now()

	startOfDay := startOfDayIn(now, m.loc)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	today, err := m.store.CountScheduledBetween(ctx, startOfDay, endOfDay)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	overdue, err := m.store.CountOverdue(ctx, now)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}

	next, err := m.store.NextScheduledAfter(ctx, now)
	hasNext := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("summary: %w", err)
	}

	switch {
	case today == 0 && overdue == 0 && !hasNext:
		return "no events scheduled.", nil

	case today == 0 && overdue == 0:
		day := lowercase.String(next.ScheduledAt.In(m.loc).Weekday().String())
		return fmt.Sprintf("no events today. next scheduled on %s.", day), nil

	case today > 0 && overdue == 0:
		if today == 1 {
			return "you have 1 event today.", nil
		}
		return fmt.Sprintf("you have %d events today.", today), nil

	case today > 0 && overdue > 0:
		return fmt.Sprintf("you have %s and %s.", countText(today, "event today", "events today"), countText(overdue, "overdue", "overdue")), nil

	case today == 0 && overdue > 0:
		if overdue == 1 {
			return "you have 1 overdue event.", nil
		}
		return fmt.Sprintf("you have %d overdue events.", overdue), nil

	default:
		return "all caught up.", nil
	}
}

func countText(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// startOfDayIn returns midnight of t's calendar day in loc.
func startOfDayIn(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
