package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SegmentStatus represents the lifecycle status of a journey segment.
// Status changes are mirrored across every segment in the same group.
type SegmentStatus string

const (
	SegmentStatusNotStarted SegmentStatus = "not_started"
	SegmentStatusRunning    SegmentStatus = "running"
	SegmentStatusCompleted  SegmentStatus = "completed"
	SegmentStatusCancelled  SegmentStatus = "cancelled"
)

// BusType represents the type/category of bus
type BusType string

const (
	BusTypeNormal     BusType = "normal"
	BusTypeSemiLuxury BusType = "semi_luxury"
	BusTypeLuxury     BusType = "luxury"
)

// timeOfDayPattern validates HH:MM values (24-hour clock).
var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeOfDay reports whether s is a valid HH:MM time of day.
func ValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// Segment is one origin->destination leg of a multi-stop journey.
// All segments generated from one journey submission share a GroupID and
// one physical vehicle's seat inventory (see seat_ledger).
type Segment struct {
	ID            string        `json:"id" db:"id"`
	GroupID       string        `json:"group_id" db:"group_id"`
	Origin        string        `json:"origin" db:"origin"`
	Destination   string        `json:"destination" db:"destination"`
	JourneyDate   time.Time     `json:"journey_date" db:"journey_date"`
	ArrivalDate   time.Time     `json:"arrival_date" db:"arrival_date"`
	DepartureTime string        `json:"departure_time" db:"departure_time"` // HH:MM
	ArrivalTime   string        `json:"arrival_time" db:"arrival_time"`     // HH:MM
	Capacity      int           `json:"capacity" db:"capacity"`
	Fare          float64       `json:"fare" db:"fare"`
	BusNumber     string        `json:"bus_number" db:"bus_number"`
	BusType       BusType       `json:"bus_type" db:"bus_type"`
	IsSegment     bool          `json:"is_segment" db:"is_segment"`
	ParentID      *string       `json:"parent_id,omitempty" db:"parent_id"`
	Status        SegmentStatus `json:"status" db:"status"`
	IsActive      bool          `json:"is_active" db:"is_active"`
	IsFullyBooked bool          `json:"is_fully_booked" db:"is_fully_booked"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// DepartureAt returns the departure instant (journey date + departure time)
// in the given location.
func (s *Segment) DepartureAt(loc *time.Location) (time.Time, error) {
	return combineDateAndTime(s.JourneyDate, s.DepartureTime, loc)
}

// ArrivalAt returns the arrival instant (arrival date + arrival time)
// in the given location.
func (s *Segment) ArrivalAt(loc *time.Location) (time.Time, error) {
	return combineDateAndTime(s.ArrivalDate, s.ArrivalTime, loc)
}

func combineDateAndTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	if !ValidTimeOfDay(hhmm) {
		return time.Time{}, fmt.Errorf("invalid time of day: %q", hhmm)
	}
	parts := strings.SplitN(hhmm, ":", 2)
	var hour, minute int
	fmt.Sscanf(parts[0], "%d", &hour)
	fmt.Sscanf(parts[1], "%d", &minute)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}

// SegmentView is a Segment with the derived availability fields attached
// by the listing service.
type SegmentView struct {
	Segment
	SeatsBooked     []string `json:"seats_booked"`
	AvailableSeats  int      `json:"available_seats"`
	BookingDisabled bool     `json:"booking_disabled"`
}

// CreateRouteRequest is the admin/vendor submission for a multi-stop journey.
// One segment is materialized per intermediate stop plus one for the final
// destination, all sharing a fresh group id.
type CreateRouteRequest struct {
	Origin            string    `json:"origin" binding:"required"`
	Destination       string    `json:"destination" binding:"required"`
	IntermediateStops []string  `json:"intermediate_stops"`
	JourneyDate       string    `json:"journey_date" binding:"required"` // YYYY-MM-DD
	ArrivalDate       string    `json:"arrival_date"`                    // YYYY-MM-DD, defaults to journey date
	DepartureTime     string    `json:"departure_time" binding:"required"`
	ArrivalTime       string    `json:"arrival_time" binding:"required"`
	Capacity          int       `json:"capacity" binding:"required,gt=0"`
	Fare              float64   `json:"fare" binding:"required,gt=0"`
	SegmentFares      []float64 `json:"segment_fares,omitempty"`
	BusNumber         string    `json:"bus_number" binding:"required"`
	BusType           string    `json:"bus_type"`
}

// Validate performs the checks gin binding cannot express.
func (r *CreateRouteRequest) Validate() error {
	if !ValidTimeOfDay(r.DepartureTime) {
		return errors.New("departure_time must be HH:MM")
	}
	if !ValidTimeOfDay(r.ArrivalTime) {
		return errors.New("arrival_time must be HH:MM")
	}
	if strings.EqualFold(r.Origin, r.Destination) {
		return errors.New("origin and destination must differ")
	}
	for _, stop := range r.IntermediateStops {
		if strings.TrimSpace(stop) == "" {
			return errors.New("intermediate stops must not be blank")
		}
	}
	if len(r.SegmentFares) > 0 && len(r.SegmentFares) != len(r.IntermediateStops)+1 {
		return errors.New("segment_fares must have one entry per stop plus the final destination")
	}
	return nil
}

// ListFilter selects segments in the listing/search path.
type ListFilter struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"` // YYYY-MM-DD, exact calendar-day match
}

// UpdateStatusRequest changes a group's status via one of its segments.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ParseSegmentStatus validates and converts a status string.
func ParseSegmentStatus(s string) (SegmentStatus, error) {
	switch SegmentStatus(strings.ToLower(s)) {
	case SegmentStatusNotStarted, SegmentStatusRunning, SegmentStatusCompleted, SegmentStatusCancelled:
		return SegmentStatus(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("invalid segment status: %q", s)
}
