package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Fake is an in-memory Gateway for tests. It models the service's visible
// semantics: it assigns ids on create, answers Get with nil for events it
// does not hold, and can be told to fail any operation with a typed error.
//
// Thread-safety: safe for concurrent use via internal mutex, so sync-pass
// tests can run lookups concurrently.
type Fake struct {
	mu     sync.Mutex
	seq    int
	events map[string]RemoteEvent

	// Injected failures, returned verbatim when set.
	CreateErr error
	UpdateErr error
	DeleteErr error
	GetErr    error
}

// NewFake creates an empty fake service.
func NewFake() *Fake {
	return &Fake{events: make(map[string]RemoteEvent)}
}

// Create assigns the next id and stores the event.
func (f *Fake) Create(ctx context.Context, account Account, title, description string, start time.Time, durationMinutes int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return "", f.CreateErr
	}

	f.seq++
	id := fmt.Sprintf("fake-%d", f.seq)
	f.events[id] = RemoteEvent{
		ID:          id,
		Summary:     title,
		Description: description,
		Start:       start,
		End:         start.Add(time.Duration(durationMinutes) * time.Minute),
	}
	return id, nil
}

// Update moves an existing event.
func (f *Fake) Update(ctx context.Context, account Account, id string, start time.Time, durationMinutes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	e, ok := f.events[id]
	if !ok {
		return &CallError{Code: CodeNotFound, Op: "update", ID: id}
	}
	e.Start = start
	e.End = start.Add(time.Duration(durationMinutes) * time.Minute)
	f.events[id] = e
	return nil
}

// Delete removes an event.
func (f *Fake) Delete(ctx context.Context, account Account, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	if _, ok := f.events[id]; !ok {
		return &CallError{Code: CodeNotFound, Op: "delete", ID: id}
	}
	delete(f.events, id)
	return nil
}

// Get answers nil for unknown ids, mirroring the service's 404.
func (f *Fake) Get(ctx context.Context, account Account, id string) (*RemoteEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	out := e
	return &out, nil
}

// Has reports whether the fake currently holds an event with the id.
func (f *Fake) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.events[id]
	return ok
}

// Drop removes an event out-of-band, simulating an external deletion the
// sync pass should discover.
func (f *Fake) Drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
}

// Len returns how many events the fake holds.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

var _ Gateway = (*Fake)(nil)
