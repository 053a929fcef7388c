package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/colmreid/readlater/internal/calendar"
	"github.com/colmreid/readlater/internal/event"
)

// SyncWithCalendar reconciles local status with remote existence.
//
// For every row that is not archived or completed it asks the gateway
// whether the remote event still exists; rows whose lookup answers "gone"
// transition to deleted-from-calendar. Archived and completed rows are
// skipped - their remote counterpart is already deleted or irrelevant.
//
// The pass is best-effort per row: a failing lookup is logged and skipped
// so one bad row cannot block reconciliation of the rest. Only conditions
// outside the loop (listing the store) surface as errors.
//
// Lookups run on a small worker pool; each row's status write happens after
// that row's own lookup result, with no ordering across rows.
func (m *Manager) SyncWithCalendar(ctx context.Context, account calendar.Account) error {
	all, err := m.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("sync with calendar: %w", err)
	}

	jobs := make(chan event.Event)
	var wg sync.WaitGroup

	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				m.reconcileRow(ctx, account, e)
			}
		}()
	}

	for _, e := range all {
		if e.Status == event.StatusArchived || e.Status == event.StatusCompleted {
			continue
		}
		jobs <- e
	}
	close(jobs)
	wg.Wait()

	return nil
}

// reconcileRow checks one row against the remote calendar. Failures are
// swallowed after logging; only a definitive "not found" answer mutates
// the row.
func (m *Manager) reconcileRow(ctx context.Context, account calendar.Account, e event.Event) {
	remote, err := m.gateway.Get(ctx, account, e.ID)
	if err != nil {
		m.logger.Warn("sync: lookup failed, skipping row", "id", e.ID, "error", err)
		return
	}
	if remote != nil {
		return
	}

	if err := m.store.SetStatus(ctx, e.ID, event.StatusDeletedFromCalendar); err != nil {
		m.logger.Warn("sync: status update failed", "id", e.ID, "error", err)
	}
}
