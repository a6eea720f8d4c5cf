package calendar

import (
	"context"
	"errors"
	"time"
)

// EventDuration is the calendar window booked for a consult. Slots are
// spaced 45 minutes apart but the consult itself is billed as half an hour.
const EventDuration = 30 * time.Minute

// ErrNotConfigured is returned when the Google OAuth config or refresh
// token is missing. Callers treat this as a best-effort failure.
var ErrNotConfigured = errors.New("calendar: google oauth not configured")

// EventRequest describes the calendar event for one booking.
type EventRequest struct {
	Summary     string
	Description string
	Start       time.Time
}

// Event is the provisioned calendar event with its conferencing link.
type Event struct {
	Link    string
	EventID string
}

// Scheduler provisions and moves video-conference events. Implementations
// are best-effort collaborators; booking persistence never depends on them.
type Scheduler interface {
	Schedule(ctx context.Context, req EventRequest) (*Event, error)
	Reschedule(ctx context.Context, eventID string, req EventRequest) (*Event, error)
}
