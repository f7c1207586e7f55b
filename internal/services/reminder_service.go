package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// ReminderBookingStore finds bookings whose trip departs on a given day.
type ReminderBookingStore interface {
	GetConfirmedDepartingOn(day time.Time) ([]models.BookingWithSegment, error)
}

// ReminderService sends the day-before trip reminder emails.
type ReminderService struct {
	bookings ReminderBookingStore
	notifier *NotificationService
	logger   *logrus.Logger
	loc      *time.Location
}

// NewReminderService creates a new reminder service
func NewReminderService(bookings ReminderBookingStore, notifier *NotificationService, logger *logrus.Logger, loc *time.Location) *ReminderService {
	return &ReminderService{
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
	}
}

// RunOnce sends reminders for every confirmed booking departing tomorrow.
func (s *ReminderService) RunOnce() {
	tomorrow := time.Now().In(s.loc).AddDate(0, 0, 1)
	rows, err := s.bookings.GetConfirmedDepartingOn(tomorrow)
	if err != nil {
		s.logger.WithError(err).Error("Reminder: failed to load tomorrow's bookings")
		return
	}
	if len(rows) == 0 {
		return
	}

	for i := range rows {
		row := rows[i]
		segment := models.Segment{
			Origin:        row.Origin,
			Destination:   row.Destination,
			JourneyDate:   row.JourneyDate,
			DepartureTime: row.DepartureTime,
			BusNumber:     row.BusNumber,
		}
		s.notifier.TripReminder(&row.Booking, &segment)
	}

	s.logger.WithField("count", len(rows)).Info("Trip reminders sent")
}
