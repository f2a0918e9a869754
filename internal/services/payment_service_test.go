package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
	"ferryapp/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes satisfying the consumer-side store interfaces.

type fakePayments struct {
	active     *models.Payment
	count      int
	inserted   []models.Payment
	insertErr  error
	paidIDs    []int64
	statusLog  map[int64]string
}

func (f *fakePayments) GetActiveByBooking(bookingID int64, now time.Time) (models.Payment, bool, error) {
	if f.active == nil {
		return models.Payment{}, false, nil
	}
	return *f.active, true, nil
}

func (f *fakePayments) CountByBooking(bookingID int64) (int, error) { return f.count, nil }

func (f *fakePayments) Insert(p *models.Payment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	p.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, *p)
	return nil
}

func (f *fakePayments) MarkPaid(id int64, paidAt time.Time, payload []byte) error {
	f.paidIDs = append(f.paidIDs, id)
	return nil
}

func (f *fakePayments) SetStatus(id int64, status string, payload []byte) error {
	if f.statusLog == nil {
		f.statusLog = map[int64]string{}
	}
	f.statusLog[id] = status
	return nil
}

type fakeBookings struct {
	booking   models.Booking
	paid      bool
	statuses  []string
	pendingOK bool
}

func (f *fakeBookings) GetByID(id int64) (models.Booking, error) { return f.booking, nil }

func (f *fakeBookings) MarkPaid(id int64, paidAt time.Time) error {
	f.paid = true
	f.booking.PaymentStatus = models.BookingPaid
	return nil
}

func (f *fakeBookings) SetStatus(id int64, status string) error {
	f.statuses = append(f.statuses, status)
	f.booking.PaymentStatus = status
	return nil
}

func (f *fakeBookings) SetStatusIfPending(id int64, status string) (bool, error) {
	if f.booking.PaymentStatus != models.BookingPending {
		return false, nil
	}
	f.booking.PaymentStatus = status
	f.statuses = append(f.statuses, status)
	return true, nil
}

type fakeSeats struct {
	granted  bool
	reserved [][2]int64
}

func (f *fakeSeats) TryReserve(scheduleID int64, qty int) (bool, error) {
	f.reserved = append(f.reserved, [2]int64{scheduleID, int64(qty)})
	return f.granted, nil
}

type fakeTickets struct {
	assigned []int64
}

func (f *fakeTickets) AssignTicketNumbers(bookingID int64) error {
	f.assigned = append(f.assigned, bookingID)
	return nil
}

type fakeGateway struct {
	created []gateway.CreateRequest
	info    gateway.PaymentInfo
	err     error
}

func (f *fakeGateway) CreateVirtualAccount(ctx context.Context, req gateway.CreateRequest) (gateway.PaymentInfo, error) {
	f.created = append(f.created, req)
	return f.info, f.err
}

func (f *fakeGateway) CreateQRCode(ctx context.Context, req gateway.CreateRequest) (gateway.PaymentInfo, error) {
	f.created = append(f.created, req)
	return f.info, f.err
}

func (f *fakeGateway) GetPaymentRequest(ctx context.Context, xenditID string) (gateway.PaymentInfo, error) {
	return f.info, f.err
}

type fakeNotifier struct {
	events [][2]string
}

func (f *fakeNotifier) PublishBookingStatus(code, status string) {
	f.events = append(f.events, [2]string{code, status})
}

func pendingBooking() models.Booking {
	expires := time.Now().Add(30 * time.Minute)
	return models.Booking{
		ID:              11,
		BookingCode:     "FRY-20260830-AB12CD34",
		UserID:          3,
		ScheduleID:      7,
		TotalPassengers: 2,
		Total:           150000,
		PaymentStatus:   models.BookingPending,
		ExpiresAt:       &expires,
	}
}

func TestCreatePaymentReusesActiveRequest(t *testing.T) {
	existing := models.Payment{ID: 1, BookingID: 11, ExternalID: "FRY-20260830-AB12CD34", Status: models.PaymentPending}
	payments := &fakePayments{active: &existing}
	gw := &fakeGateway{}

	svc := PaymentService{Payments: payments, Gateway: gw}
	got, err := svc.CreatePayment(context.Background(), pendingBooking(), "BCA")
	require.NoError(t, err)
	assert.Equal(t, existing.ExternalID, got.ExternalID)
	assert.Empty(t, gw.created, "no new gateway request while one is live")
	assert.Empty(t, payments.inserted)
}

func TestCreatePaymentRejectsUnknownMethod(t *testing.T) {
	svc := PaymentService{Payments: &fakePayments{}, Gateway: &fakeGateway{}}
	_, err := svc.CreatePayment(context.Background(), pendingBooking(), "GOPAY")
	assert.True(t, domain.IsUnsupportedMethod(err))
}

func TestCreatePaymentSuffixesRetriedExternalID(t *testing.T) {
	payments := &fakePayments{count: 1} // one prior expired request
	gw := &fakeGateway{info: gateway.PaymentInfo{ID: "pr-2", Status: domain.GatewayStatusPending}}

	svc := PaymentService{Payments: payments, Gateway: gw}
	got, err := svc.CreatePayment(context.Background(), pendingBooking(), "QRIS")
	require.NoError(t, err)
	assert.Equal(t, "FRY-20260830-AB12CD34-2", got.ExternalID)
	require.Len(t, gw.created, 1)
	assert.Equal(t, "FRY-20260830-AB12CD34-2", gw.created[0].ExternalID)
	assert.Equal(t, int64(150000), gw.created[0].Amount)
}

func TestCreatePaymentDoesNotPersistOnGatewayFailure(t *testing.T) {
	payments := &fakePayments{}
	gw := &fakeGateway{err: domain.GatewayError{Op: "create", StatusCode: 503}}

	svc := PaymentService{Payments: payments, Gateway: gw}
	_, err := svc.CreatePayment(context.Background(), pendingBooking(), "BRI")
	assert.True(t, domain.IsGatewayError(err))
	assert.Empty(t, payments.inserted)
}

func TestCreatePaymentLosingRaceReturnsWinner(t *testing.T) {
	winner := models.Payment{ID: 9, BookingID: 11, ExternalID: "FRY-20260830-AB12CD34", Status: models.PaymentPending}
	payments := &fakePayments{insertErr: domain.DuplicatePaymentError{ExternalID: winner.ExternalID}}
	gw := &fakeGateway{info: gateway.PaymentInfo{ID: "pr-1"}}

	svc := PaymentService{Payments: payments, Gateway: gw}

	// After the duplicate insert the re-read must find the winning row.
	payments.active = &winner
	got, err := svc.CreatePayment(context.Background(), models.Booking{
		ID: 11, BookingCode: "FRY-20260830-AB12CD34", Total: 150000,
	}, "BCA")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
}

func TestReconcileTerminalPaymentIsReplaySafe(t *testing.T) {
	payments := &fakePayments{}
	bookings := &fakeBookings{booking: pendingBooking()}

	svc := PaymentService{Payments: payments, Bookings: bookings}
	payment := models.Payment{ID: 1, BookingID: 11, Status: models.PaymentPaid}

	signal, err := svc.Reconcile(payment, domain.GatewayStatusSucceeded, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalPaid, signal)
	assert.Empty(t, payments.paidIDs, "terminal payment must not be touched again")
	assert.False(t, bookings.paid)
}

func TestReconcileSucceededPaysPendingBooking(t *testing.T) {
	payments := &fakePayments{}
	bookings := &fakeBookings{booking: pendingBooking()}
	tickets := &fakeTickets{}
	notif := &fakeNotifier{}

	svc := PaymentService{Payments: payments, Bookings: bookings, Passengers: tickets, Notifier: notif}
	payment := models.Payment{ID: 1, BookingID: 11, ExternalID: "FRY-20260830-AB12CD34", Status: models.PaymentPending}

	signal, err := svc.Reconcile(payment, domain.GatewayStatusSucceeded, []byte(`{"status":"SUCCEEDED"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.SignalPaid, signal)
	assert.Equal(t, []int64{1}, payments.paidIDs)
	assert.True(t, bookings.paid)
	assert.Equal(t, []int64{11}, tickets.assigned)
	require.Len(t, notif.events, 1)
	assert.Equal(t, models.BookingPaid, notif.events[0][1])
}

func TestReconcileLatePaymentRegrantsSeats(t *testing.T) {
	b := pendingBooking()
	b.PaymentStatus = models.BookingExpired
	payments := &fakePayments{}
	bookings := &fakeBookings{booking: b}
	seats := &fakeSeats{granted: true}
	tickets := &fakeTickets{}

	svc := PaymentService{Payments: payments, Bookings: bookings, Schedules: seats, Passengers: tickets}
	payment := models.Payment{ID: 2, BookingID: 11, Status: models.PaymentPending}

	signal, err := svc.Reconcile(payment, domain.GatewayStatusSucceeded, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalPaid, signal)
	require.Len(t, seats.reserved, 1)
	assert.Equal(t, [2]int64{7, 2}, seats.reserved[0])
	assert.True(t, bookings.paid)
	assert.Equal(t, []int64{11}, tickets.assigned)
}

func TestReconcileLatePaymentWithoutSeatsNeedsRefund(t *testing.T) {
	b := pendingBooking()
	b.PaymentStatus = models.BookingExpired
	payments := &fakePayments{}
	bookings := &fakeBookings{booking: b}
	seats := &fakeSeats{granted: false}
	notif := &fakeNotifier{}

	svc := PaymentService{Payments: payments, Bookings: bookings, Schedules: seats, Notifier: notif}
	payment := models.Payment{ID: 2, BookingID: 11, Status: models.PaymentPending}

	signal, err := svc.Reconcile(payment, domain.GatewayStatusSucceeded, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalPaidNoSeats, signal)
	assert.Contains(t, bookings.statuses, models.BookingRefundNeeded)
	assert.False(t, bookings.paid)
	require.Len(t, notif.events, 1)
	assert.Equal(t, models.BookingRefundNeeded, notif.events[0][1])
}

func TestReconcileExpiredFollowsOnlyFromPending(t *testing.T) {
	payments := &fakePayments{}
	bookings := &fakeBookings{booking: pendingBooking()}
	notif := &fakeNotifier{}

	svc := PaymentService{Payments: payments, Bookings: bookings, Notifier: notif}
	payment := models.Payment{ID: 3, BookingID: 11, Status: models.PaymentPending}

	signal, err := svc.Reconcile(payment, domain.GatewayStatusExpired, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalExpired, signal)
	assert.Equal(t, models.PaymentExpired, payments.statusLog[3])
	assert.Equal(t, models.BookingExpired, bookings.booking.PaymentStatus)

	// Replay against the now-expired booking: payment row may be written
	// again but the booking must not move.
	bookings.statuses = nil
	signal, err = svc.Reconcile(payment, domain.GatewayStatusExpired, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalExpired, signal)
	assert.Empty(t, bookings.statuses)
}

func TestReconcileFailedDoesNotDowngradePaidBooking(t *testing.T) {
	b := pendingBooking()
	b.PaymentStatus = models.BookingPaid
	payments := &fakePayments{}
	bookings := &fakeBookings{booking: b}

	svc := PaymentService{Payments: payments, Bookings: bookings}
	payment := models.Payment{ID: 4, BookingID: 11, Status: models.PaymentPending}

	signal, err := svc.Reconcile(payment, domain.GatewayStatusFailed, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalFailed, signal)
	assert.Equal(t, models.BookingPaid, bookings.booking.PaymentStatus)
}

func TestReconcileUnknownStatusMutatesNothing(t *testing.T) {
	payments := &fakePayments{}
	bookings := &fakeBookings{booking: pendingBooking()}

	svc := PaymentService{Payments: payments, Bookings: bookings}
	payment := models.Payment{ID: 5, BookingID: 11, Status: models.PaymentPending}

	signal, err := svc.Reconcile(payment, "REQUIRES_ACTION", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalPending, signal)
	assert.Empty(t, payments.paidIDs)
	assert.Nil(t, payments.statusLog)
	assert.Equal(t, models.BookingPending, bookings.booking.PaymentStatus)
}

func TestSyncPaymentStatusSkipsGatewayForTerminalPayment(t *testing.T) {
	gw := &fakeGateway{err: errors.New("must not be called")}
	svc := PaymentService{Gateway: gw}

	signal, err := svc.SyncPaymentStatus(context.Background(), models.Payment{ID: 6, Status: models.PaymentExpired})
	require.NoError(t, err)
	assert.Equal(t, domain.SignalExpired, signal)
}

func TestStatusFromEvent(t *testing.T) {
	assert.Equal(t, domain.GatewayStatusSucceeded, StatusFromEvent(domain.EventPaymentSucceeded, ""))
	assert.Equal(t, domain.GatewayStatusFailed, StatusFromEvent(domain.EventPaymentFailed, ""))
	assert.Equal(t, domain.GatewayStatusExpired, StatusFromEvent(domain.EventMethodExpired, ""))
	assert.Equal(t, domain.GatewayStatusSucceeded, StatusFromEvent("payment.capture", domain.GatewayStatusSucceeded))
	assert.Equal(t, "", StatusFromEvent("payment.capture", "REQUIRES_ACTION"))
}
