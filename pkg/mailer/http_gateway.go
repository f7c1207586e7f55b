package mailer

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPGateway implements Gateway against a transactional email provider's
// HTTP API (JSON body, bearer key, optional base64 attachment).
type HTTPGateway struct {
	apiURL      string
	apiKey      string
	fromAddress string
	fromName    string
	client      *http.Client
}

// HTTPConfig holds configuration for the HTTP email gateway
type HTTPConfig struct {
	APIURL      string
	APIKey      string
	FromAddress string
	FromName    string
}

// NewHTTPGateway creates a new HTTP email gateway client
func NewHTTPGateway(config HTTPConfig) *HTTPGateway {
	return &HTTPGateway{
		apiURL:      config.APIURL,
		apiKey:      config.APIKey,
		fromAddress: config.FromAddress,
		fromName:    config.FromName,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"` // base64
}

type sendRequest struct {
	FromAddress string       `json:"from_address"`
	FromName    string       `json:"from_name"`
	ToAddress   string       `json:"to_address"`
	ToName      string       `json:"to_name,omitempty"`
	Subject     string       `json:"subject"`
	HTMLBody    string       `json:"html_body"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type sendResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Message   string `json:"message,omitempty"`
}

// SendRegistration sends the account welcome email
func (g *HTTPGateway) SendRegistration(email, name string) error {
	return g.send(sendRequest{
		ToAddress: email,
		ToName:    name,
		Subject:   "Welcome to RoadLink",
		HTMLBody:  registrationBody(name),
	})
}

// SendBookingConfirmation sends the booking receipt with the PDF ticket
func (g *HTTPGateway) SendBookingConfirmation(data BookingEmailData, pdfTicket []byte) error {
	req := sendRequest{
		ToAddress: data.PassengerEmail,
		ToName:    data.PassengerName,
		Subject:   fmt.Sprintf("Booking confirmed: %s to %s on %s", data.Origin, data.Destination, data.JourneyDate),
		HTMLBody:  bookingConfirmationBody(data),
	}
	if len(pdfTicket) > 0 {
		req.Attachments = []attachment{{
			Filename:    fmt.Sprintf("ticket-%s.pdf", data.BookingID),
			ContentType: "application/pdf",
			Content:     base64.StdEncoding.EncodeToString(pdfTicket),
		}}
	}
	return g.send(req)
}

// SendTripReminder sends the day-before departure reminder
func (g *HTTPGateway) SendTripReminder(data BookingEmailData) error {
	return g.send(sendRequest{
		ToAddress: data.PassengerEmail,
		ToName:    data.PassengerName,
		Subject:   fmt.Sprintf("Trip reminder: %s to %s departs %s at %s", data.Origin, data.Destination, data.JourneyDate, data.DepartureTime),
		HTMLBody:  tripReminderBody(data),
	})
}

// GetName returns the gateway implementation name
func (g *HTTPGateway) GetName() string {
	return "http"
}

func (g *HTTPGateway) send(req sendRequest) error {
	req.FromAddress = g.fromAddress
	req.FromName = g.fromName

	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, g.apiURL+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("email provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(body))
	}

	var sendResp sendResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return fmt.Errorf("failed to parse email provider response: %w", err)
	}
	if sendResp.Status != "" && sendResp.Status != "success" && sendResp.Status != "queued" {
		return fmt.Errorf("email provider rejected message: %s", sendResp.Message)
	}
	return nil
}
