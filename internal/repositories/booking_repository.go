package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "ferryapp/internal/config"
	intdb "ferryapp/internal/db"
	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, booking_code, user_id, schedule_id, total_passengers,
       subtotal, discount, total, payment_status, expires_at, paid_at, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (models.Booking, error) {
	var b models.Booking
	var expiresAt, paidAt sql.NullTime
	err := scan(
		&b.ID,
		&b.BookingCode,
		&b.UserID,
		&b.ScheduleID,
		&b.TotalPassengers,
		&b.Subtotal,
		&b.Discount,
		&b.Total,
		&b.PaymentStatus,
		&expiresAt,
		&paidAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		b.ExpiresAt = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		b.PaidAt = &t
	}
	return b, nil
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? AND deleted_at IS NULL LIMIT 1`, id)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func (r BookingRepository) GetByCode(code string) (models.Booking, error) {
	if code == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_code", Msg: "kode kosong"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE booking_code=? AND deleted_at IS NULL LIMIT 1`, code)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

// InsertTx writes the booking row inside an open transaction and fills
// in the generated id.
func (r BookingRepository) InsertTx(tx intdb.Execer, b *models.Booking) error {
	res, err := tx.Exec(`
		INSERT INTO bookings
			(booking_code, user_id, schedule_id, total_passengers, subtotal, discount, total, payment_status, expires_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		b.BookingCode, b.UserID, b.ScheduleID, b.TotalPassengers,
		b.Subtotal, b.Discount, b.Total, b.PaymentStatus, intdb.TimeOrNil(b.ExpiresAt),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// MarkPaid moves the booking to PAID and clears expires_at: a paid
// booking is no longer time-bounded.
func (r BookingRepository) MarkPaid(id int64, paidAt time.Time) error {
	_, err := r.db().Exec(`
		UPDATE bookings
		SET payment_status=?, paid_at=?, expires_at=NULL, updated_at=NOW()
		WHERE id=?`,
		models.BookingPaid, paidAt, id,
	)
	return err
}

func (r BookingRepository) SetStatus(id int64, status string) error {
	_, err := r.db().Exec(`UPDATE bookings SET payment_status=?, updated_at=NOW() WHERE id=?`, status, id)
	return err
}

// SetStatusIfPending transitions only out of PENDING; replays and
// cross-path races (a booking already PAID elsewhere) are no-ops.
func (r BookingRepository) SetStatusIfPending(id int64, status string) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE bookings SET payment_status=?, updated_at=NOW()
		WHERE id=? AND payment_status=?`,
		status, id, models.BookingPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListExpiredIDs returns PENDING bookings whose hold window has lapsed.
func (r BookingRepository) ListExpiredIDs(now time.Time, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db().Query(`
		SELECT id FROM bookings
		WHERE payment_status=? AND expires_at IS NOT NULL AND expires_at < ? AND deleted_at IS NULL
		ORDER BY expires_at
		LIMIT ?`,
		models.BookingPending, now, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExpireBooking expires one overdue booking under a row lock. The
// status is re-checked after SELECT ... FOR UPDATE so a payment
// confirmation that landed first wins; in that case nothing is touched
// and (false, nil) is returned. On expiry the seats go back to the
// schedule and a still-PENDING payment is expired with the booking,
// all in one transaction.
func (r BookingRepository) ExpireBooking(id int64, now time.Time) (expired bool, err error) {
	tx, err := r.db().Begin()
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var status string
	var scheduleID int64
	var totalPassengers int
	err = tx.QueryRow(`
		SELECT payment_status, schedule_id, total_passengers
		FROM bookings WHERE id=? FOR UPDATE`, id).
		Scan(&status, &scheduleID, &totalPassengers)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			_ = tx.Rollback()
			return false, nil
		}
		return false, err
	}

	if status != models.BookingPending {
		_ = tx.Rollback()
		return false, nil
	}

	if _, err = tx.Exec(`
		UPDATE bookings SET payment_status=?, updated_at=NOW() WHERE id=?`,
		models.BookingExpired, id); err != nil {
		return false, err
	}

	if _, err = tx.Exec(`
		UPDATE schedules SET available_seats = available_seats + ?, updated_at = NOW() WHERE id = ?`,
		totalPassengers, scheduleID); err != nil {
		return false, err
	}

	if _, err = tx.Exec(`
		UPDATE payments SET status=?, updated_at=NOW() WHERE booking_id=? AND status=?`,
		models.PaymentExpired, id, models.PaymentPending); err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// SoftDelete hides a booking without losing its payment trail.
func (r BookingRepository) SoftDelete(id int64) error {
	res, err := r.db().Exec(`UPDATE bookings SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}
