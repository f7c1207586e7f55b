package models

import "time"

// PaymentCancellation is a durable short-lived override flag: once a payment
// reference is marked cancelled here, status and OTP calls for it must
// short-circuit without contacting the provider until the flag expires.
type PaymentCancellation struct {
	Reference   string    `json:"reference" db:"reference"`
	CancelledAt time.Time `json:"cancelled_at" db:"cancelled_at"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
}

// SubmitOTPRequest forwards a collection OTP to the payment provider.
type SubmitOTPRequest struct {
	Reference string `json:"reference" binding:"required"`
	OTP       string `json:"otp" binding:"required"`
}

// ProviderStatusResponse is the provider's view of a collection request.
type ProviderStatusResponse struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// ProviderChannel is one supported collection channel (mobile money
// operator or bank).
type ProviderChannel struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"` // "mobile_money" or "bank"
	IsActive bool   `json:"is_active"`
}
