package services

import (
	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/pkg/mailer"
	"github.com/roadlink/bus-booking-backend/pkg/metrics"
	"github.com/roadlink/bus-booking-backend/pkg/ticket"
)

// NotificationService sends transactional email. Every method swallows
// the gateway error after logging it: a mail outage must never fail a
// registration or a booking.
type NotificationService struct {
	gateway mailer.Gateway
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(gateway mailer.Gateway, m *metrics.Metrics, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		gateway: gateway,
		metrics: m,
		logger:  logger,
	}
}

// Registration sends the account welcome email.
func (s *NotificationService) Registration(email, name string) {
	if err := s.gateway.SendRegistration(email, name); err != nil {
		s.metrics.EmailFailures.WithLabelValues("registration").Inc()
		s.logger.WithError(err).WithField("email", email).Error("Failed to send registration email")
		return
	}
	s.metrics.EmailsSent.WithLabelValues("registration").Inc()
}

// BookingConfirmed renders the e-ticket PDF and sends the confirmation
// email. A render failure downgrades to a ticketless email.
func (s *NotificationService) BookingConfirmed(booking *models.Booking, segment *models.Segment) {
	data := emailData(booking, segment)

	pdfTicket, err := ticket.Render(ticket.Data{
		BookingID:     booking.ID,
		PassengerName: booking.PassengerName,
		Origin:        segment.Origin,
		Destination:   segment.Destination,
		JourneyDate:   segment.JourneyDate.Format("2006-01-02"),
		DepartureTime: segment.DepartureTime,
		BusNumber:     segment.BusNumber,
		Seats:         booking.Seats,
		TotalAmount:   booking.TotalAmount,
		TransactionID: booking.TransactionID,
	})
	if err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).Error("Failed to render e-ticket, sending without attachment")
		pdfTicket = nil
	}

	if err := s.gateway.SendBookingConfirmation(data, pdfTicket); err != nil {
		s.metrics.EmailFailures.WithLabelValues("booking_confirmation").Inc()
		s.logger.WithError(err).WithField("booking_id", booking.ID).Error("Failed to send booking confirmation email")
		return
	}
	s.metrics.EmailsSent.WithLabelValues("booking_confirmation").Inc()
}

// TripReminder sends the day-before departure reminder.
func (s *NotificationService) TripReminder(booking *models.Booking, segment *models.Segment) {
	if err := s.gateway.SendTripReminder(emailData(booking, segment)); err != nil {
		s.metrics.EmailFailures.WithLabelValues("trip_reminder").Inc()
		s.logger.WithError(err).WithField("booking_id", booking.ID).Error("Failed to send trip reminder email")
		return
	}
	s.metrics.EmailsSent.WithLabelValues("trip_reminder").Inc()
}

func emailData(booking *models.Booking, segment *models.Segment) mailer.BookingEmailData {
	return mailer.BookingEmailData{
		BookingID:      booking.ID,
		PassengerName:  booking.PassengerName,
		PassengerEmail: booking.PassengerEmail,
		Origin:         segment.Origin,
		Destination:    segment.Destination,
		JourneyDate:    segment.JourneyDate.Format("2006-01-02"),
		DepartureTime:  segment.DepartureTime,
		BusNumber:      segment.BusNumber,
		Seats:          booking.Seats,
		TotalAmount:    booking.TotalAmount,
		TransactionID:  booking.TransactionID,
	}
}
