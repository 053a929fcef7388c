package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/colmreid/readlater/internal/event"
)

// hub fans a "something changed" signal out to watch subscriptions.
//
// Signals are coalesced: a subscriber that has not drained its pending
// signal gets one combined wakeup, not a backlog. That is enough because
// watchers re-query the store rather than consuming deltas.
type hub struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[chan struct{}]struct{})}
}

func (h *hub) subscribe() chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

func (h *hub) unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, ch)
}

func (h *hub) notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber already has a pending wakeup.
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
	}
	h.subs = map[chan struct{}]struct{}{}
}

// Query is a reusable read against the store, e.g. (*Store).ListScheduled.
type Query func(ctx context.Context) ([]event.Event, error)

// Watch returns a channel that carries the current result of query and then
// re-emits it after every mutating store operation. The first emission
// happens immediately.
//
// The subscription lives until ctx is cancelled or the store is closed, at
// which point the channel closes. A slow receiver never blocks writers:
// change signals coalesce, and the watcher re-queries when the receiver
// catches up. Query errors mid-subscription are logged and skipped so a
// transient failure does not tear down the watch.
func (s *Store) Watch(ctx context.Context, query Query) (<-chan []event.Event, error) {
	// Fail fast if the initial query is broken (bad SQL, closed DB).
	initial, err := query(ctx)
	if err != nil {
		return nil, err
	}

	signal := s.hub.subscribe()
	out := make(chan []event.Event)

	go func() {
		defer close(out)
		defer s.hub.unsubscribe(signal)

		pending := initial
		for {
			select {
			case out <- pending:
			case <-ctx.Done():
				return
			}

			select {
			case _, ok := <-signal:
				if !ok {
					return
				}
				next, err := query(ctx)
				if err != nil {
					slog.Warn("watch query failed", "error", err)
					continue
				}
				pending = next
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
