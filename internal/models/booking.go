package models

import (
	"fmt"
	"strings"
	"time"
)

// BookingStatus represents the lifecycle status of a booking.
// pending -> confirmed -> {cancelled, completed}; cancelled is terminal.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// PaymentMethod is the collection channel used for the booking.
type PaymentMethod string

const (
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
	PaymentMethodBank        PaymentMethod = "bank"
	PaymentMethodCash        PaymentMethod = "cash"
)

// Booking records a confirmed or cancelled reservation against exactly one
// segment. Seats are never mutated once the booking is confirmed; release
// happens through cancellation only.
type Booking struct {
	ID             string        `json:"id" db:"id"`
	UserID         string        `json:"user_id" db:"user_id"`
	SegmentID      string        `json:"segment_id" db:"segment_id"`
	GroupID        string        `json:"group_id" db:"group_id"`
	Seats          StringArray   `json:"seats" db:"seats"`
	TransactionID  string        `json:"transaction_id" db:"transaction_id"`
	TotalAmount    float64       `json:"total_amount" db:"total_amount"`
	PassengerName  string        `json:"passenger_name" db:"passenger_name"`
	PassengerEmail string        `json:"passenger_email" db:"passenger_email"`
	PassengerPhone string        `json:"passenger_phone" db:"passenger_phone"`
	PaymentMethod  PaymentMethod `json:"payment_method" db:"payment_method"`
	Status         BookingStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// CanCancel reports whether a cancellation is a legal transition.
func (b *Booking) CanCancel() error {
	switch b.Status {
	case BookingStatusCancelled:
		return fmt.Errorf("booking %s: %w", b.ID, ErrAlreadyCancelled)
	case BookingStatusCompleted:
		return fmt.Errorf("booking %s: %w", b.ID, ErrAlreadyCompleted)
	}
	return nil
}

// BookSeatsRequest is the seat-claim submission.
type BookSeatsRequest struct {
	SegmentID      string   `json:"segment_id" binding:"required"`
	Seats          []string `json:"seats" binding:"required"`
	TransactionID  string   `json:"transaction_id" binding:"required"`
	PassengerName  string   `json:"passenger_name" binding:"required"`
	PassengerEmail string   `json:"passenger_email" binding:"required,email"`
	PassengerPhone string   `json:"passenger_phone" binding:"required"`
	PaymentMethod  string   `json:"payment_method"`
}

// NormalizedSeats trims whitespace and rejects blanks and duplicates
// within the request itself.
func (r *BookSeatsRequest) NormalizedSeats() ([]string, error) {
	if len(r.Seats) == 0 {
		return nil, fmt.Errorf("at least one seat is required")
	}
	seen := make(map[string]struct{}, len(r.Seats))
	out := make([]string, 0, len(r.Seats))
	for _, s := range r.Seats {
		seat := strings.TrimSpace(s)
		if seat == "" {
			return nil, fmt.Errorf("seat identifiers must not be blank")
		}
		if _, dup := seen[seat]; dup {
			return nil, fmt.Errorf("seat %s is listed more than once", seat)
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	return out, nil
}

// BookingWithSegment joins a booking to its segment's itinerary, used by
// the reminder job and booking detail responses.
type BookingWithSegment struct {
	Booking
	Origin        string    `json:"origin" db:"origin"`
	Destination   string    `json:"destination" db:"destination"`
	JourneyDate   time.Time `json:"journey_date" db:"journey_date"`
	DepartureTime string    `json:"departure_time" db:"departure_time"`
	BusNumber     string    `json:"bus_number" db:"bus_number"`
}
