package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/pkg/metrics"
)

// BookingStore is the slice of the booking repository the service needs.
type BookingStore interface {
	Create(b *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByUserID(userID string) ([]models.Booking, error)
	GetAll() ([]models.Booking, error)
	UpdateStatus(id string, from, to models.BookingStatus) (bool, error)
	Delete(id string) error
}

// SegmentGetter looks up segments for booking validation.
type SegmentGetter interface {
	GetByID(id string) (*models.Segment, error)
}

// BookingService owns the reservation lifecycle. Seat claims go through
// the group ledger before the booking row is written, so two requests for
// the same seat on any segments of the same vehicle can never both win.
type BookingService struct {
	bookings  BookingStore
	segments  SegmentGetter
	inventory *SeatInventoryService
	notifier  *NotificationService
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	loc       *time.Location

	cutoff time.Duration // booking closes this long before departure

	now func() time.Time // injectable for tests
}

// NewBookingService creates a new booking service
func NewBookingService(bookings BookingStore, segments SegmentGetter, inventory *SeatInventoryService, notifier *NotificationService, m *metrics.Metrics, logger *logrus.Logger, loc *time.Location, cutoff time.Duration) *BookingService {
	return &BookingService{
		bookings:  bookings,
		segments:  segments,
		inventory: inventory,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		loc:       loc,
		cutoff:    cutoff,
		now:       time.Now,
	}
}

// BookSeats claims the requested seats for the segment's group and records
// the booking. On any failure after the claim, the seats are released
// again so a half-finished booking never holds inventory.
func (s *BookingService) BookSeats(userID string, req *models.BookSeatsRequest) (*models.Booking, error) {
	seats, err := req.NormalizedSeats()
	if err != nil {
		return nil, &models.ValidationError{Err: err}
	}

	segment, err := s.segments.GetByID(req.SegmentID)
	if err != nil {
		return nil, err
	}
	if !segment.IsActive || segment.Status == models.SegmentStatusCancelled {
		return nil, fmt.Errorf("segment %s: %w", segment.ID, models.ErrSegmentInactive)
	}

	departure, err := segment.DepartureAt(s.loc)
	if err != nil {
		return nil, fmt.Errorf("segment %s has an invalid departure time: %w", segment.ID, err)
	}
	if s.now().In(s.loc).After(departure.Add(-s.cutoff)) {
		return nil, fmt.Errorf("segment %s: %w", segment.ID, models.ErrBookingClosed)
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		UserID:         userID,
		SegmentID:      segment.ID,
		GroupID:        segment.GroupID,
		Seats:          seats,
		TransactionID:  req.TransactionID,
		TotalAmount:    segment.Fare * float64(len(seats)),
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		PassengerPhone: req.PassengerPhone,
		PaymentMethod:  paymentMethodOrDefault(req.PaymentMethod),
		Status:         models.BookingStatusConfirmed,
	}

	if err := s.inventory.Claim(segment.GroupID, booking.ID, seats, segment.Capacity); err != nil {
		var conflict *models.SeatConflictError
		if errors.As(err, &conflict) {
			s.metrics.SeatConflicts.Inc()
		}
		return nil, err
	}
	s.metrics.SeatsClaimed.Add(float64(len(seats)))

	if err := s.bookings.Create(booking); err != nil {
		if _, relErr := s.inventory.Release(booking.ID); relErr != nil {
			s.logger.WithError(relErr).WithField("booking_id", booking.ID).Error("Failed to release seats after booking insert failure")
		}
		return nil, err
	}

	s.metrics.BookingsCreated.Inc()
	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    userID,
		"segment_id": segment.ID,
		"seats":      seats,
	}).Info("Booking confirmed")

	go s.notifier.BookingConfirmed(booking, segment)

	return booking, nil
}

// Cancel transitions a booking to cancelled and releases its seats. Only
// the booking's owner or an admin may cancel; a booking that is already
// cancelled or completed is rejected.
func (s *BookingService) Cancel(bookingID, requesterID string, requesterRole models.Role) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID && requesterRole != models.RoleAdmin {
		return nil, models.ErrNotOwner
	}
	if err := booking.CanCancel(); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateStatus(bookingID, booking.Status, models.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost the race against another transition; re-read to report why.
		current, rerr := s.bookings.GetByID(bookingID)
		if rerr != nil {
			return nil, rerr
		}
		if cerr := current.CanCancel(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("booking %s could not be cancelled", bookingID)
	}

	if _, err := s.inventory.Release(bookingID); err != nil {
		// The booking is cancelled either way; the cleanup job deletes
		// claims still held by cancelled bookings.
		s.logger.WithError(err).WithField("booking_id", bookingID).Error("Failed to release seats on cancellation")
	}

	s.metrics.BookingsCancelled.Inc()
	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    requesterID,
	}).Info("Booking cancelled")

	booking.Status = models.BookingStatusCancelled
	return booking, nil
}

// Get returns one booking, visible to its owner and to admins.
func (s *BookingService) Get(bookingID, requesterID string, requesterRole models.Role) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID && requesterRole != models.RoleAdmin {
		return nil, models.ErrNotOwner
	}
	return booking, nil
}

// ListForUser returns the requester's bookings, newest first.
func (s *BookingService) ListForUser(userID string) ([]models.Booking, error) {
	return s.bookings.GetByUserID(userID)
}

// ListAll returns every booking. Admin only; enforced at the route.
func (s *BookingService) ListAll() ([]models.Booking, error) {
	return s.bookings.GetAll()
}

// Delete removes a booking record outright, releasing any seats it still
// holds. Admin only; passengers cancel instead.
func (s *BookingService) Delete(bookingID string) error {
	if _, err := s.inventory.Release(bookingID); err != nil {
		return err
	}
	return s.bookings.Delete(bookingID)
}

func paymentMethodOrDefault(method string) models.PaymentMethod {
	switch models.PaymentMethod(method) {
	case models.PaymentMethodBank:
		return models.PaymentMethodBank
	case models.PaymentMethodCash:
		return models.PaymentMethodCash
	default:
		return models.PaymentMethodMobileMoney
	}
}
