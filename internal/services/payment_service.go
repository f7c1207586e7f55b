package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/config"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/pkg/metrics"
)

// CancellationStore is the durable short-circuit flag store for payment
// references. A marked reference refuses status polls and OTP submissions
// until the mark expires, even across process restarts.
type CancellationStore interface {
	Mark(reference string, ttl time.Duration) error
	IsCancelled(reference string) (bool, error)
}

// PaymentService proxies the mobile-money collection provider. The backend
// never holds card or wallet credentials; it forwards requests and keeps
// its own cancellation flags so a passenger's "stop this payment" sticks
// immediately, no matter what the provider still reports.
type PaymentService struct {
	config          *config.PaymentConfig
	cancellations   CancellationStore
	cancellationTTL time.Duration
	metrics         *metrics.Metrics
	logger          *logrus.Logger
	client          *http.Client
}

// NewPaymentService creates a new payment service
func NewPaymentService(cfg *config.PaymentConfig, cancellations CancellationStore, cancellationTTL time.Duration, m *metrics.Metrics, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		config:          cfg,
		cancellations:   cancellations,
		cancellationTTL: cancellationTTL,
		metrics:         m,
		logger:          logger,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Cancel marks a payment reference cancelled. The flag is written before
// anything else so the short-circuit holds even if the process dies right
// after.
func (s *PaymentService) Cancel(reference string) error {
	if err := s.cancellations.Mark(reference, s.cancellationTTL); err != nil {
		return fmt.Errorf("failed to mark payment %s cancelled: %w", reference, err)
	}
	s.metrics.PaymentProxyCalls.WithLabelValues("cancel", "success").Inc()
	s.logger.WithField("reference", reference).Info("Payment marked cancelled")
	return nil
}

// Status returns the provider's view of a collection request, unless the
// reference is flagged cancelled, in which case the provider is never
// contacted and a cancelled status is reported.
func (s *PaymentService) Status(reference string) (*models.ProviderStatusResponse, error) {
	cancelled, err := s.cancellations.IsCancelled(reference)
	if err != nil {
		return nil, err
	}
	if cancelled {
		s.metrics.PaymentProxyCalls.WithLabelValues("status", "short_circuit").Inc()
		return &models.ProviderStatusResponse{
			Reference: reference,
			Status:    "cancelled",
			Message:   "payment was cancelled",
		}, nil
	}

	var status models.ProviderStatusResponse
	if err := s.doRequest("status", http.MethodGet, "/collections/"+reference, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SubmitOTP forwards a collection OTP to the provider. Flagged references
// are rejected without a provider call.
func (s *PaymentService) SubmitOTP(req *models.SubmitOTPRequest) (*models.ProviderStatusResponse, error) {
	cancelled, err := s.cancellations.IsCancelled(req.Reference)
	if err != nil {
		return nil, err
	}
	if cancelled {
		s.metrics.PaymentProxyCalls.WithLabelValues("otp", "short_circuit").Inc()
		return nil, models.ErrPaymentCancelled
	}

	var status models.ProviderStatusResponse
	if err := s.doRequest("otp", http.MethodPost, "/collections/otp", req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Channels lists the provider's supported collection channels.
func (s *PaymentService) Channels() ([]models.ProviderChannel, error) {
	var out struct {
		Channels []models.ProviderChannel `json:"channels"`
	}
	if err := s.doRequest("channels", http.MethodGet, "/channels", nil, &out); err != nil {
		return nil, err
	}
	return out.Channels, nil
}

func (s *PaymentService) doRequest(op, method, path string, payload, out interface{}) error {
	if s.config.BaseURL == "" {
		return fmt.Errorf("payment provider not configured")
	}

	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, s.config.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.PaymentProxyCalls.WithLabelValues(op, "error").Inc()
		s.logger.WithError(err).WithField("operation", op).Error("Payment provider unreachable")
		return &models.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.metrics.PaymentProxyCalls.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode >= 300 {
		s.metrics.PaymentProxyCalls.WithLabelValues(op, "error").Inc()
		s.logger.WithFields(logrus.Fields{
			"operation":   op,
			"status_code": resp.StatusCode,
			"response":    string(respBody),
		}).Error("Payment provider returned an error")
		return &models.UpstreamError{Op: op, Status: resp.StatusCode, Detail: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		s.metrics.PaymentProxyCalls.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("failed to decode provider response: %w", err)
	}

	s.metrics.PaymentProxyCalls.WithLabelValues(op, "success").Inc()
	return nil
}
