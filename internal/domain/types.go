package domain

// SyncSignal is the outcome of reconciling a gateway status against
// local Payment/Booking state.
type SyncSignal string

const (
	SignalPending SyncSignal = "PENDING"
	SignalPaid    SyncSignal = "PAID"
	SignalExpired SyncSignal = "EXPIRED"
	SignalFailed  SyncSignal = "FAILED"
	// SignalPaidNoSeats: pembayaran tertangkap tetapi kursi sudah
	// terlepas ke orang lain; booking diarahkan ke refund manual.
	SignalPaidNoSeats SyncSignal = "SUCCEEDED_NO_SEATS"
)

// Gateway-side payment request statuses (Xendit).
const (
	GatewayStatusPending   = "PENDING"
	GatewayStatusSucceeded = "SUCCEEDED"
	GatewayStatusExpired   = "EXPIRED"
	GatewayStatusFailed    = "FAILED"
)

// Webhook event names delivered by the gateway.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
	EventMethodExpired    = "payment_method.expired"
)

// Virtual-account channel codes accepted by the adapter. QRIS is the
// only non-VA method.
var VirtualAccountChannels = map[string]bool{
	"BCA":               true,
	"BRI":               true,
	"MANDIRI":           true,
	"BNI":               true,
	"PERMATA":           true,
	"CIMB":              true,
	"SAHABAT_SAMPOERNA": true,
}

const MethodQRIS = "QRIS"

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}
