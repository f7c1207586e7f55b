package mailer

// BookingEmailData carries everything the booking-related templates need.
type BookingEmailData struct {
	BookingID      string
	PassengerName  string
	PassengerEmail string
	Origin         string
	Destination    string
	JourneyDate    string // YYYY-MM-DD
	DepartureTime  string // HH:MM
	BusNumber      string
	Seats          []string
	TotalAmount    float64
	TransactionID  string
}

// Gateway defines the interface for sending transactional email.
// All sends are fire-and-forget from the caller's perspective: failures
// are returned for logging but must never fail the triggering operation.
type Gateway interface {
	// SendRegistration sends the account welcome email
	SendRegistration(email, name string) error

	// SendBookingConfirmation sends the booking receipt; pdfTicket may be
	// nil when ticket rendering failed
	SendBookingConfirmation(data BookingEmailData, pdfTicket []byte) error

	// SendTripReminder sends the day-before departure reminder
	SendTripReminder(data BookingEmailData) error

	// GetName returns the name of the gateway implementation
	GetName() string
}
