package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// Data carries everything the ticket layout needs.
type Data struct {
	BookingID     string
	PassengerName string
	Origin        string
	Destination   string
	JourneyDate   string // YYYY-MM-DD
	DepartureTime string // HH:MM
	BusNumber     string
	Seats         []string
	TotalAmount   float64
	TransactionID string
}

// Render builds the e-ticket PDF attached to booking confirmation emails.
func Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "ROADLINK E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger   : %s", d.PassengerName),
		fmt.Sprintf("Route       : %s -> %s", d.Origin, d.Destination),
		fmt.Sprintf("Date        : %s", d.JourneyDate),
		fmt.Sprintf("Departure   : %s", d.DepartureTime),
		fmt.Sprintf("Bus         : %s", d.BusNumber),
		fmt.Sprintf("Seats       : %s", strings.Join(d.Seats, ", ")),
		fmt.Sprintf("Amount      : %.2f", d.TotalAmount),
		fmt.Sprintf("Booking Ref : %s", d.BookingID),
		fmt.Sprintf("Payment Ref : %s", d.TransactionID),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket when boarding. Arrive at the boarding point at least 15 minutes before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}
