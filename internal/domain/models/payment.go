package models

import (
	"encoding/json"
	"time"
)

// Payment statuses; all but PENDING are terminal.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentExpired = "EXPIRED"
	PaymentFailed  = "FAILED"
)

// Payment is one gateway payment request for a booking. ExternalID is
// globally unique and doubles as the request-level idempotency key.
type Payment struct {
	ID             int64           `json:"id"`
	BookingID      int64           `json:"booking_id"`
	ExternalID     string          `json:"external_id"`
	XenditID       string          `json:"xendit_id"`
	Method         string          `json:"payment_method"`
	Amount         int64           `json:"amount"`
	Status         string          `json:"status"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	AccountNumber  string          `json:"account_number,omitempty"`
	QRString       string          `json:"qr_string,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsTerminal reports whether the payment reached a final state.
func (p Payment) IsTerminal() bool {
	return p.Status != PaymentPending
}

// Expired reports whether a PENDING payment ran past its own gateway
// expiration and may be superseded by a new request.
func (p Payment) Expired(now time.Time) bool {
	return p.ExpirationDate != nil && p.ExpirationDate.Before(now)
}
