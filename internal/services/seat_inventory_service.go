package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// SeatLedger is the atomic seat-set store for segment groups. Implemented
// by database.SeatLedgerRepository; tests use an in-memory fake with the
// same all-or-nothing claim contract.
type SeatLedger interface {
	// Resolve returns the booked-seat set for a group
	Resolve(groupID string) ([]string, error)

	// ResolveMany returns the booked-seat sets for several groups at once
	ResolveMany(groupIDs []string) (map[string][]string, error)

	// Claim adds seats for a booking, failing with SeatConflictError or
	// ErrCapacityExceeded without claiming anything
	Claim(groupID, bookingID string, seats []string, capacity int) error

	// ReleaseBooking removes a booking's seats, returning how many
	ReleaseBooking(bookingID string) (int, error)
}

// GroupReader is the slice of the segment repository the inventory needs.
type GroupReader interface {
	CountInGroup(groupID string) (int, error)
}

// SeatInventoryService answers "which seats are taken for this vehicle"
// and commits claims and releases group-wide. Because the ledger holds one
// seat set per group, every segment of a group sees the same set by
// construction; there is no per-segment copy to pick an authority from.
type SeatInventoryService struct {
	ledger SeatLedger
	groups GroupReader
	logger *logrus.Logger
}

// NewSeatInventoryService creates a new seat inventory service
func NewSeatInventoryService(ledger SeatLedger, groups GroupReader, logger *logrus.Logger) *SeatInventoryService {
	return &SeatInventoryService{
		ledger: ledger,
		groups: groups,
		logger: logger,
	}
}

// Resolve returns the booked-seat set for a group. Fails with
// ErrGroupNotFound when the group has no segments at all.
func (s *SeatInventoryService) Resolve(groupID string) ([]string, error) {
	count, err := s.groups.CountInGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check group %s: %w", groupID, err)
	}
	if count == 0 {
		return nil, models.ErrGroupNotFound
	}
	seats, err := s.ledger.Resolve(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seats for group %s: %w", groupID, err)
	}
	return seats, nil
}

// ResolveMany returns booked-seat sets for several groups; groups with no
// claims map to a nil slice. Used by the listing path to avoid N queries.
func (s *SeatInventoryService) ResolveMany(groupIDs []string) (map[string][]string, error) {
	return s.ledger.ResolveMany(groupIDs)
}

// Claim commits a booking's seats group-wide, all-or-nothing.
func (s *SeatInventoryService) Claim(groupID, bookingID string, seats []string, capacity int) error {
	err := s.ledger.Claim(groupID, bookingID, seats, capacity)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"group_id":   groupID,
		"booking_id": bookingID,
		"seats":      seats,
	}).Info("Seats claimed")
	return nil
}

// Release returns a booking's seats to the group's pool.
func (s *SeatInventoryService) Release(bookingID string) (int, error) {
	released, err := s.ledger.ReleaseBooking(bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to release seats for booking %s: %w", bookingID, err)
	}
	if released > 0 {
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"released":   released,
		}).Info("Seats released")
	}
	return released, nil
}
