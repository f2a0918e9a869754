package services

import (
	"context"
	"fmt"
	"time"

	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
	"ferryapp/internal/gateway"
	"ferryapp/internal/utils"
)

// Store interfaces are declared consumer-side: only what the payment
// flow needs, satisfied by the concrete repositories.

type paymentStore interface {
	GetActiveByBooking(bookingID int64, now time.Time) (models.Payment, bool, error)
	CountByBooking(bookingID int64) (int, error)
	Insert(p *models.Payment) error
	MarkPaid(id int64, paidAt time.Time, payload []byte) error
	SetStatus(id int64, status string, payload []byte) error
}

type bookingStore interface {
	GetByID(id int64) (models.Booking, error)
	MarkPaid(id int64, paidAt time.Time) error
	SetStatus(id int64, status string) error
	SetStatusIfPending(id int64, status string) (bool, error)
}

type seatStore interface {
	TryReserve(scheduleID int64, qty int) (bool, error)
}

type ticketStore interface {
	AssignTicketNumbers(bookingID int64) error
}

type paymentGateway interface {
	CreateVirtualAccount(ctx context.Context, req gateway.CreateRequest) (gateway.PaymentInfo, error)
	CreateQRCode(ctx context.Context, req gateway.CreateRequest) (gateway.PaymentInfo, error)
	GetPaymentRequest(ctx context.Context, xenditID string) (gateway.PaymentInfo, error)
}

type notifier interface {
	PublishBookingStatus(bookingCode, status string)
}

// PaymentService memegang dua tanggung jawab inti: membuat payment
// request ke gateway (dengan idempotency) dan merekonsiliasi status
// gateway ke Payment/Booking/kursi lokal tepat satu kali.
type PaymentService struct {
	Payments   paymentStore
	Bookings   bookingStore
	Schedules  seatStore
	Passengers ticketStore
	Gateway    paymentGateway
	Notifier   notifier
	RequestID  string
	Now        func() time.Time
}

func (s PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s PaymentService) notify(bookingCode, status string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.PublishBookingStatus(bookingCode, status)
}

// CreatePayment creates a gateway payment request for the booking, or
// returns the existing live one unchanged. Never leaves two live
// requests racing for one booking.
func (s PaymentService) CreatePayment(ctx context.Context, booking models.Booking, method string) (models.Payment, error) {
	method = utils.NormalizeMethod(method)
	now := s.now()

	existing, ok, err := s.Payments.GetActiveByBooking(booking.ID, now)
	if err != nil {
		return models.Payment{}, err
	}
	if ok {
		utils.LogEvent(s.RequestID, "payment", "create",
			fmt.Sprintf("booking=%s reuse external_id=%s", booking.BookingCode, existing.ExternalID))
		return existing, nil
	}

	isQR := method == domain.MethodQRIS
	if !isQR && !domain.VirtualAccountChannels[method] {
		return models.Payment{}, domain.UnsupportedMethodError{Method: method}
	}

	// Suffix keeps external_id globally unique when a prior request for
	// this booking expired or failed.
	prior, err := s.Payments.CountByBooking(booking.ID)
	if err != nil {
		return models.Payment{}, err
	}
	externalID := booking.BookingCode
	if prior > 0 {
		externalID = fmt.Sprintf("%s-%d", booking.BookingCode, prior+1)
	}

	expiresAt := now.Add(time.Hour)
	if booking.ExpiresAt != nil && booking.ExpiresAt.After(now) {
		expiresAt = *booking.ExpiresAt
	}

	req := gateway.CreateRequest{
		ExternalID:  externalID,
		Amount:      booking.Total,
		Channel:     method,
		ExpiresAt:   expiresAt,
		Description: "Tiket ferry " + booking.BookingCode,
	}

	var info gateway.PaymentInfo
	if isQR {
		info, err = s.Gateway.CreateQRCode(ctx, req)
	} else {
		info, err = s.Gateway.CreateVirtualAccount(ctx, req)
	}
	if err != nil {
		// GatewayError: nothing persisted, caller may retry.
		return models.Payment{}, err
	}

	payment := models.Payment{
		BookingID:      booking.ID,
		ExternalID:     externalID,
		XenditID:       info.ID,
		Method:         method,
		Amount:         booking.Total,
		Status:         models.PaymentPending,
		ExpirationDate: &expiresAt,
		Payload:        info.Raw,
		AccountNumber:  info.AccountNumber,
		QRString:       info.QRString,
	}
	if info.ExpiresAt != nil {
		payment.ExpirationDate = info.ExpiresAt
	}

	if err := s.Payments.Insert(&payment); err != nil {
		if domain.IsDuplicatePayment(err) {
			// Lost a race with a concurrent create; the winning row is
			// the live payment for this booking.
			if win, ok, readErr := s.Payments.GetActiveByBooking(booking.ID, now); readErr == nil && ok {
				return win, nil
			}
		}
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "create",
		fmt.Sprintf("booking=%s external_id=%s method=%s amount=%d", booking.BookingCode, externalID, method, booking.Total))
	return payment, nil
}

// SyncPaymentStatus pulls the gateway status for a payment and
// reconciles it; the pull counterpart of the webhook path.
func (s PaymentService) SyncPaymentStatus(ctx context.Context, payment models.Payment) (domain.SyncSignal, error) {
	if payment.IsTerminal() {
		return signalFor(payment.Status), nil
	}
	info, err := s.Gateway.GetPaymentRequest(ctx, payment.XenditID)
	if err != nil {
		return "", err
	}
	return s.Reconcile(payment, info.Status, info.Raw)
}

// Reconcile applies a gateway-reported status to local state exactly
// once. Terminal local payments ignore replays entirely; unrecognized
// gateway statuses mutate nothing (tolerates gateway schema evolution).
func (s PaymentService) Reconcile(payment models.Payment, gatewayStatus string, payload []byte) (domain.SyncSignal, error) {
	if payment.IsTerminal() {
		return signalFor(payment.Status), nil
	}

	switch gatewayStatus {
	case domain.GatewayStatusSucceeded:
		return s.reconcilePaid(payment, payload)
	case domain.GatewayStatusExpired:
		return s.reconcileTerminal(payment, models.PaymentExpired, models.BookingExpired, payload)
	case domain.GatewayStatusFailed:
		return s.reconcileTerminal(payment, models.PaymentFailed, models.BookingFailed, payload)
	default:
		return domain.SignalPending, nil
	}
}

// reconcilePaid is the hard case: the payment is confirmed, and the
// booking may or may not still hold its seats.
func (s PaymentService) reconcilePaid(payment models.Payment, payload []byte) (domain.SyncSignal, error) {
	now := s.now()
	if err := s.Payments.MarkPaid(payment.ID, now, payload); err != nil {
		return "", err
	}

	// Fetch fresh: the sweeper may have expired the booking between the
	// webhook arriving and this line running.
	booking, err := s.Bookings.GetByID(payment.BookingID)
	if err != nil {
		return "", err
	}

	switch booking.PaymentStatus {
	case models.BookingPending:
		if err := s.Bookings.MarkPaid(booking.ID, now); err != nil {
			return "", err
		}
		if err := s.Passengers.AssignTicketNumbers(booking.ID); err != nil {
			return "", err
		}
		s.notify(booking.BookingCode, models.BookingPaid)
		utils.LogEvent(s.RequestID, "payment", "reconcile",
			fmt.Sprintf("booking=%s paid external_id=%s", booking.BookingCode, payment.ExternalID))
		return domain.SignalPaid, nil

	case models.BookingExpired:
		// Late payment: the sweeper already released the seats. The
		// booking is only honored when the seats can be re-granted now.
		ok, err := s.Schedules.TryReserve(booking.ScheduleID, booking.TotalPassengers)
		if err != nil {
			return "", err
		}
		if !ok {
			if err := s.Bookings.SetStatus(booking.ID, models.BookingRefundNeeded); err != nil {
				return "", err
			}
			s.notify(booking.BookingCode, models.BookingRefundNeeded)
			utils.LogEvent(s.RequestID, "payment", "reconcile",
				fmt.Sprintf("booking=%s paid late, no seats: refund needed", booking.BookingCode))
			return domain.SignalPaidNoSeats, nil
		}
		if err := s.Bookings.MarkPaid(booking.ID, now); err != nil {
			return "", err
		}
		if err := s.Passengers.AssignTicketNumbers(booking.ID); err != nil {
			return "", err
		}
		s.notify(booking.BookingCode, models.BookingPaid)
		utils.LogEvent(s.RequestID, "payment", "reconcile",
			fmt.Sprintf("booking=%s paid late, seats re-granted", booking.BookingCode))
		return domain.SignalPaid, nil

	default:
		// Payment captured against a booking that is terminal for some
		// other reason. Keep the money trail accurate, touch nothing
		// else, flag for manual review.
		utils.LogEvent(s.RequestID, "payment", "reconcile",
			fmt.Sprintf("anomaly: payment %s paid while booking %s is %s", payment.ExternalID, booking.BookingCode, booking.PaymentStatus))
		return domain.SignalPaid, nil
	}
}

func (s PaymentService) reconcileTerminal(payment models.Payment, paymentStatus, bookingStatus string, payload []byte) (domain.SyncSignal, error) {
	if err := s.Payments.SetStatus(payment.ID, paymentStatus, payload); err != nil {
		return "", err
	}
	// Follow only from PENDING: never downgrade a booking already PAID
	// via another path, or already terminal for another reason.
	moved, err := s.Bookings.SetStatusIfPending(payment.BookingID, bookingStatus)
	if err != nil {
		return "", err
	}
	if moved {
		if booking, err := s.Bookings.GetByID(payment.BookingID); err == nil {
			s.notify(booking.BookingCode, bookingStatus)
		}
	}
	return signalFor(paymentStatus), nil
}

// StatusFromEvent maps a webhook event name (plus the embedded data
// status) to a gateway status; empty means unrecognized.
func StatusFromEvent(event, dataStatus string) string {
	switch event {
	case domain.EventPaymentSucceeded:
		return domain.GatewayStatusSucceeded
	case domain.EventPaymentFailed:
		return domain.GatewayStatusFailed
	case domain.EventMethodExpired:
		return domain.GatewayStatusExpired
	}
	switch dataStatus {
	case domain.GatewayStatusSucceeded, domain.GatewayStatusExpired, domain.GatewayStatusFailed:
		return dataStatus
	}
	return ""
}

func signalFor(paymentStatus string) domain.SyncSignal {
	switch paymentStatus {
	case models.PaymentPaid:
		return domain.SignalPaid
	case models.PaymentExpired:
		return domain.SignalExpired
	case models.PaymentFailed:
		return domain.SignalFailed
	default:
		return domain.SignalPending
	}
}
