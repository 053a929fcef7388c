package calendar

import (
	"context"
	"time"
)

// Account is the opaque credential handle produced by the sign-in flow.
// The gateway does not interpret it beyond attaching the token to requests.
type Account struct {
	// CalendarID names the calendar events are written to.
	CalendarID string

	// Token is the bearer credential for the calendar API.
	Token string
}

// RemoteEvent is the service's view of an event, as returned by Get.
type RemoteEvent struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Gateway is the call-and-result contract against the remote calendar
// service. Implementations must return *CallError for failures so callers
// can branch on the failure code.
//
// All methods block on network I/O; pass a context the caller controls.
// A cancelled call is a failure, never a partial success.
type Gateway interface {
	// Create inserts a new event and returns the id the service assigned.
	Create(ctx context.Context, account Account, title, description string, start time.Time, durationMinutes int) (string, error)

	// Update moves an existing event to a new start time and duration.
	Update(ctx context.Context, account Account, id string, start time.Time, durationMinutes int) error

	// Delete removes an event.
	Delete(ctx context.Context, account Account, id string) error

	// Get fetches an event by id. A (nil, nil) return means the event does
	// not exist on the service - that is an answer, not a failure.
	Get(ctx context.Context, account Account, id string) (*RemoteEvent, error)
}
