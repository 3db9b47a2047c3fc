package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrMemberNotFound  = errors.New("member not found")
)

// RejectionCode identifies why a booking request was refused. Codes are part
// of the API surface; clients render specific messages from them.
type RejectionCode string

const (
	RejectPastDate        RejectionCode = "past-date"
	RejectOutOfHours      RejectionCode = "out-of-hours"
	RejectBadDuration     RejectionCode = "bad-duration"
	RejectSlotConflict    RejectionCode = "slot-conflict"
	RejectExternalBlock   RejectionCode = "external-block-conflict"
	RejectOverduePayments RejectionCode = "overdue-payments-exist"
)

// ValidationError rejects malformed or out-of-bounds input before any side
// effect.
type ValidationError struct {
	Code    RejectionCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError rejects a range that collides with an existing booking or
// with the external blocked-time overlay. Hours lists the colliding hours;
// SourceEvent names the external event when the overlay caused the conflict.
type ConflictError struct {
	Code        RejectionCode
	Hours       []int
	SourceEvent string
}

func (e *ConflictError) Error() string {
	if e.SourceEvent != "" {
		return fmt.Sprintf("hours %v are reserved by event %q", e.Hours, e.SourceEvent)
	}
	return fmt.Sprintf("hours %v conflict with an existing booking", e.Hours)
}

// OverdueItem is one blocking obligation in a GateError payload.
type OverdueItem struct {
	PaymentID   uint      `json:"payment_id"`
	Amount      float64   `json:"amount"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
}

// GateError blocks new bookings while the requester has overdue obligations
// or unpaid past bookings. This is a hard precondition, not a warning.
type GateError struct {
	Items []OverdueItem
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%d overdue payment(s) must be settled before booking", len(e.Items))
}

// StateError rejects edits or cancellations against a terminal booking.
type StateError struct {
	BookingID uint
	Status    models.BookingStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("booking %d is %s and can no longer be modified", e.BookingID, e.Status)
}

// AllocationInconsistencyError reports a drift between the booking's total
// fee and the sum of its active payments beyond rounding tolerance. It
// indicates a calculator or allocator bug and must never be swallowed.
type AllocationInconsistencyError struct {
	BookingID uint
	Expected  float64
	Allocated float64
}

func (e *AllocationInconsistencyError) Error() string {
	return fmt.Sprintf("booking %d: allocated %.2f does not match total fee %.2f",
		e.BookingID, e.Allocated, e.Expected)
}
