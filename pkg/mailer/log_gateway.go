package mailer

import (
	"github.com/sirupsen/logrus"
)

// LogGateway implements Gateway by logging instead of sending. Used in
// development mode and in tests.
type LogGateway struct {
	logger *logrus.Logger
}

// NewLogGateway creates a log-only email gateway
func NewLogGateway(logger *logrus.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// SendRegistration logs the welcome email
func (g *LogGateway) SendRegistration(email, name string) error {
	g.logger.WithFields(logrus.Fields{
		"to":   email,
		"name": name,
	}).Info("DEV MAIL: registration email")
	return nil
}

// SendBookingConfirmation logs the booking receipt
func (g *LogGateway) SendBookingConfirmation(data BookingEmailData, pdfTicket []byte) error {
	g.logger.WithFields(logrus.Fields{
		"to":         data.PassengerEmail,
		"booking_id": data.BookingID,
		"seats":      data.Seats,
		"pdf_bytes":  len(pdfTicket),
	}).Info("DEV MAIL: booking confirmation email")
	return nil
}

// SendTripReminder logs the reminder
func (g *LogGateway) SendTripReminder(data BookingEmailData) error {
	g.logger.WithFields(logrus.Fields{
		"to":         data.PassengerEmail,
		"booking_id": data.BookingID,
	}).Info("DEV MAIL: trip reminder email")
	return nil
}

// GetName returns the gateway implementation name
func (g *LogGateway) GetName() string {
	return "log"
}
