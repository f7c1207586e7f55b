package models

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors shared by the repositories and services. Handlers map
// these onto HTTP statuses.
var (
	ErrSegmentNotFound      = errors.New("segment not found")
	ErrGroupNotFound        = errors.New("no segments found for group")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrCapacityExceeded     = errors.New("seat capacity exceeded")
	ErrDuplicateTransaction = errors.New("transaction reference already used")
	ErrNotOwner             = errors.New("booking belongs to another user")
	ErrPaymentCancelled     = errors.New("payment reference is cancelled")
	ErrAlreadyCancelled     = errors.New("already cancelled")
	ErrAlreadyCompleted     = errors.New("already completed")
	ErrSegmentInactive      = errors.New("not open for booking")
	ErrBookingClosed        = errors.New("booking window has closed")
)

// ValidationError marks a request rejected before any state change.
// Handlers map it to 400 with the underlying message intact.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// SeatConflictError names the seats that were already claimed when a
// booking attempt arrived.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

// UpstreamError wraps a payment/email provider failure with the provider's
// own status code when one was received; Status 0 means network failure.
type UpstreamError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: provider returned %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: provider unreachable: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
