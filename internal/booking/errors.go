// internal/booking/errors.go
package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange indicates the requested end time is not after the start time.
	ErrInvalidRange = errors.New("end time must be after start time")
	// ErrInvalidPrice indicates a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrForbidden indicates the requester does not own the reservation.
	ErrForbidden = errors.New("reservation belongs to another user")
	// ErrNotFound indicates the referenced field or reservation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotConfirmed indicates an attempt to reschedule a reservation that is
	// no longer holding its slot.
	ErrNotConfirmed = errors.New("reservation is not confirmed")
)

// SlotConflictError reports a requested range that overlaps an existing
// confirmed reservation on the same field.
type SlotConflictError struct {
	FieldID   int64
	StartTime time.Time
	EndTime   time.Time
}

func (e SlotConflictError) Error() string {
	return fmt.Sprintf("time slot already booked: field %d [%s, %s)",
		e.FieldID, e.StartTime.Format(time.RFC3339), e.EndTime.Format(time.RFC3339))
}
