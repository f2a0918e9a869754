package models

import "time"

// Booking payment statuses. PENDING is the only non-terminal state.
const (
	BookingPending      = "PENDING"
	BookingPaid         = "PAID"
	BookingExpired      = "EXPIRED"
	BookingCancelled    = "CANCELLED"
	BookingFailed       = "FAILED"
	BookingRefundNeeded = "REFUND_NEEDED"
)

// Booking holds seats on a schedule until paid or expired.
type Booking struct {
	ID              int64      `json:"id"`
	BookingCode     string     `json:"booking_code"`
	UserID          int64      `json:"user_id"`
	ScheduleID      int64      `json:"schedule_id"`
	TotalPassengers int        `json:"total_passengers"`
	Subtotal        int64      `json:"subtotal"`
	Discount        int64      `json:"discount"`
	Total           int64      `json:"total"`
	PaymentStatus   string     `json:"payment_status"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the booking can no longer transition.
func (b Booking) IsTerminal() bool {
	return b.PaymentStatus != BookingPending
}

// BookingPassenger is one seat on a booking. TicketNumber is assigned
// only after payment confirmation.
type BookingPassenger struct {
	ID           int64      `json:"id"`
	BookingID    int64      `json:"booking_id"`
	Name         string     `json:"name"`
	IDNumber     string     `json:"id_number"`
	TicketNumber string     `json:"ticket_number,omitempty"`
	ScannedAt    *time.Time `json:"scanned_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PassengerInput carries passenger info on booking creation.
type PassengerInput struct {
	Name     string `json:"name"`
	IDNumber string `json:"id_number"`
}
