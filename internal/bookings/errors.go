package bookings

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingNotFound is returned when no booking matches the given id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSlotTaken is returned when an insert collides with an active
	// booking for the same date and time.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrNothingToUpdate is returned when an update request carries no fields.
	ErrNothingToUpdate = errors.New("no fields to update")
)

// ValidationError reports a missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
