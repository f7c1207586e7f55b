package mailer

import (
	"fmt"
	"html"
	"strings"
)

// Template bodies are deliberately plain HTML strings: the provider
// applies branding, we only supply content.

func registrationBody(name string) string {
	return fmt.Sprintf(`
		<h2>Welcome aboard, %s!</h2>
		<p>Your RoadLink account has been created. You can now search routes,
		book seats and manage your trips from your account.</p>
		<p>Safe travels,<br>The RoadLink team</p>
	`, html.EscapeString(name))
}

func bookingConfirmationBody(d BookingEmailData) string {
	return fmt.Sprintf(`
		<h2>Your booking is confirmed</h2>
		<p>Hi %s, your seats are booked. Your ticket is attached.</p>
		<table>
			<tr><td>Route</td><td>%s → %s</td></tr>
			<tr><td>Date</td><td>%s</td></tr>
			<tr><td>Departure</td><td>%s</td></tr>
			<tr><td>Bus</td><td>%s</td></tr>
			<tr><td>Seats</td><td>%s</td></tr>
			<tr><td>Amount</td><td>%.2f</td></tr>
			<tr><td>Reference</td><td>%s</td></tr>
		</table>
		<p>Please arrive at the boarding point at least 15 minutes early.</p>
	`,
		html.EscapeString(d.PassengerName),
		html.EscapeString(d.Origin), html.EscapeString(d.Destination),
		d.JourneyDate, d.DepartureTime,
		html.EscapeString(d.BusNumber),
		html.EscapeString(strings.Join(d.Seats, ", ")),
		d.TotalAmount,
		html.EscapeString(d.TransactionID),
	)
}

func tripReminderBody(d BookingEmailData) string {
	return fmt.Sprintf(`
		<h2>Your trip is coming up</h2>
		<p>Hi %s, a reminder that your bus from %s to %s departs on %s at %s.</p>
		<p>Bus %s, seats %s. See you on board!</p>
	`,
		html.EscapeString(d.PassengerName),
		html.EscapeString(d.Origin), html.EscapeString(d.Destination),
		d.JourneyDate, d.DepartureTime,
		html.EscapeString(d.BusNumber),
		html.EscapeString(strings.Join(d.Seats, ", ")),
	)
}
