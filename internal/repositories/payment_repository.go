package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "ferryapp/internal/config"
	intdb "ferryapp/internal/db"
	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const paymentColumns = `id, booking_id, external_id, COALESCE(xendit_id,''), payment_method,
       amount, status, expiration_date, paid_at, COALESCE(payload,''),
       COALESCE(account_number,''), COALESCE(qr_string,''), created_at, updated_at`

func scanPayment(scan func(dest ...any) error) (models.Payment, error) {
	var p models.Payment
	var expiration, paidAt sql.NullTime
	var payload []byte
	err := scan(
		&p.ID,
		&p.BookingID,
		&p.ExternalID,
		&p.XenditID,
		&p.Method,
		&p.Amount,
		&p.Status,
		&expiration,
		&paidAt,
		&payload,
		&p.AccountNumber,
		&p.QRString,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return models.Payment{}, err
	}
	if expiration.Valid {
		t := expiration.Time
		p.ExpirationDate = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	if len(payload) > 0 {
		p.Payload = payload
	}
	return p, nil
}

func (r PaymentRepository) GetByID(id int64) (models.Payment, error) {
	if id <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "payment_id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id=? LIMIT 1`, id)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, domain.NotFoundError{Resource: "payment", Err: err}
	}
	return p, err
}

// GetByExternalID resolves a webhook reference_id. Absence is not an
// error: gateways keep retrying after local cleanup, so the caller
// answers those with a no-op.
func (r PaymentRepository) GetByExternalID(externalID string) (models.Payment, bool, error) {
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE external_id=? LIMIT 1`, externalID)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, false, nil
	}
	if err != nil {
		return models.Payment{}, false, err
	}
	return p, true, nil
}

func (r PaymentRepository) GetByXenditID(xenditID string) (models.Payment, bool, error) {
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE xendit_id=? LIMIT 1`, xenditID)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, false, nil
	}
	if err != nil {
		return models.Payment{}, false, err
	}
	return p, true, nil
}

// GetActiveByBooking returns the live payment request for a booking: a
// PENDING row whose own expiration (when set) is still in the future.
// This is the idempotency guard against duplicate gateway requests.
func (r PaymentRepository) GetActiveByBooking(bookingID int64, now time.Time) (models.Payment, bool, error) {
	row := r.db().QueryRow(`
		SELECT `+paymentColumns+` FROM payments
		WHERE booking_id=? AND status=? AND (expiration_date IS NULL OR expiration_date > ?)
		ORDER BY id DESC LIMIT 1`,
		bookingID, models.PaymentPending, now,
	)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, false, nil
	}
	if err != nil {
		return models.Payment{}, false, err
	}
	return p, true, nil
}

// CountByBooking is used to derive the distinguishing suffix of a
// replacement external_id.
func (r PaymentRepository) CountByBooking(bookingID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM payments WHERE booking_id=?`, bookingID).Scan(&n)
	return n, err
}

// Insert persists a payment after a successful gateway response. A
// unique-key race on external_id surfaces as DuplicatePaymentError so
// the caller can re-read the winning row instead of reporting a
// generic integrity failure.
func (r PaymentRepository) Insert(p *models.Payment) error {
	res, err := r.db().Exec(`
		INSERT INTO payments
			(booking_id, external_id, xendit_id, payment_method, amount, status, expiration_date, payload, account_number, qr_string)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.BookingID, p.ExternalID, intdb.NullIfEmpty(p.XenditID), p.Method, p.Amount, p.Status,
		intdb.TimeOrNil(p.ExpirationDate), []byte(p.Payload), intdb.NullIfEmpty(p.AccountNumber), intdb.NullIfEmpty(p.QRString),
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return domain.DuplicatePaymentError{ExternalID: p.ExternalID}
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// MarkPaid finalizes a payment and stores the raw gateway payload that
// confirmed it.
func (r PaymentRepository) MarkPaid(id int64, paidAt time.Time, payload []byte) error {
	_, err := r.db().Exec(`
		UPDATE payments SET status=?, paid_at=?, payload=?, updated_at=NOW() WHERE id=?`,
		models.PaymentPaid, paidAt, payload, id,
	)
	return err
}

// SetStatus moves a payment to a terminal non-PAID state, keeping the
// reporting payload when one came with the update.
func (r PaymentRepository) SetStatus(id int64, status string, payload []byte) error {
	if len(payload) == 0 {
		_, err := r.db().Exec(`UPDATE payments SET status=?, updated_at=NOW() WHERE id=?`, status, id)
		return err
	}
	_, err := r.db().Exec(`UPDATE payments SET status=?, payload=?, updated_at=NOW() WHERE id=?`, status, payload, id)
	return err
}

// GetLatestByBooking returns the newest payment row for display.
func (r PaymentRepository) GetLatestByBooking(bookingID int64) (models.Payment, bool, error) {
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE booking_id=? ORDER BY id DESC LIMIT 1`, bookingID)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, false, nil
	}
	if err != nil {
		return models.Payment{}, false, err
	}
	return p, true, nil
}
