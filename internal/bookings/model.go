package bookings

import (
	"strings"
	"time"
)

// Booking statuses. Cancellation is a status transition, never a row delete.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// PlaceholderVideoLink is stored when Meet provisioning fails; the booking
// still goes through and the link is repaired on the next reschedule.
const PlaceholderVideoLink = "Google Meet (pending)"

// Booking is a telehealth appointment. Date is a calendar day (YYYY-MM-DD)
// and Time a 24-hour HH:MM slot start, both in the practice timezone.
// Amount is in whole currency units (rand).
type Booking struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Reason          string    `json:"reason"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	TypeLabel       string    `json:"type_label"`
	Amount          int       `json:"amount"`
	Status          string    `json:"status"`
	PaymentMethod   string    `json:"payment_method"`
	VideoLink       string    `json:"video_link"`
	CalendarEventID string    `json:"calendar_event_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateBookingRequest is the payload for both the public booking form and
// the admin manual-add flow.
type CreateBookingRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Reason    string `json:"reason"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	TypeLabel string `json:"type_label"`
	Amount    int    `json:"amount"`
}

// Validate checks all required fields are present. Validation failures are
// reported before any calendar or store call is attempted.
func (r *CreateBookingRequest) Validate() error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"reason", r.Reason},
		{"date", r.Date},
		{"time", r.Time},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

// UpdateBookingRequest carries the mutable subset for a reschedule or
// status transition. Empty fields are left untouched.
type UpdateBookingRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// IsReschedule reports whether both a new date and a new time were supplied,
// which is what triggers a calendar event update.
func (r *UpdateBookingRequest) IsReschedule() bool {
	return strings.TrimSpace(r.Date) != "" && strings.TrimSpace(r.Time) != ""
}

// Empty reports whether the update carries no changes at all.
func (r *UpdateBookingRequest) Empty() bool {
	return strings.TrimSpace(r.Date) == "" && strings.TrimSpace(r.Time) == "" && strings.TrimSpace(r.Status) == ""
}

// ListFilter narrows the admin bookings query. Zero values mean "no filter".
type ListFilter struct {
	StartDate string
	EndDate   string
	Status    string
	Query     string
}
