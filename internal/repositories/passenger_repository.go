package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "ferryapp/internal/config"
	intdb "ferryapp/internal/db"
	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
	"ferryapp/internal/utils"
)

type PassengerRepository struct {
	DB *sql.DB
}

func (r PassengerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r PassengerRepository) GetByID(id int64) (models.BookingPassenger, error) {
	if id <= 0 {
		return models.BookingPassenger{}, domain.ValidationError{Field: "passenger_id", Msg: "id tidak valid"}
	}
	var p models.BookingPassenger
	var ticket sql.NullString
	var scannedAt sql.NullTime
	err := r.db().QueryRow(`
		SELECT id, booking_id, name, COALESCE(id_number,''), ticket_number, scanned_at, created_at
		FROM booking_passengers WHERE id=? LIMIT 1`, id).
		Scan(&p.ID, &p.BookingID, &p.Name, &p.IDNumber, &ticket, &scannedAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BookingPassenger{}, domain.NotFoundError{Resource: "passenger", Err: err}
		}
		return models.BookingPassenger{}, err
	}
	if ticket.Valid {
		p.TicketNumber = ticket.String
	}
	if scannedAt.Valid {
		t := scannedAt.Time
		p.ScannedAt = &t
	}
	return p, nil
}

func (r PassengerRepository) ListByBooking(bookingID int64) ([]models.BookingPassenger, error) {
	rows, err := r.db().Query(`
		SELECT id, booking_id, name, COALESCE(id_number,''), ticket_number, scanned_at, created_at
		FROM booking_passengers WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BookingPassenger
	for rows.Next() {
		var p models.BookingPassenger
		var ticket sql.NullString
		var scannedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.IDNumber, &ticket, &scannedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		if ticket.Valid {
			p.TicketNumber = ticket.String
		}
		if scannedAt.Valid {
			t := scannedAt.Time
			p.ScannedAt = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertTx writes passenger rows inside the booking-creation transaction.
func (r PassengerRepository) InsertTx(tx intdb.Execer, bookingID int64, passengers []models.PassengerInput) error {
	for _, in := range passengers {
		if _, err := tx.Exec(`
			INSERT INTO booking_passengers (booking_id, name, id_number)
			VALUES (?,?,?)`,
			bookingID, in.Name, intdb.NullIfEmpty(in.IDNumber),
		); err != nil {
			return err
		}
	}
	return nil
}

// AssignTicketNumbers fills ticket numbers for passengers that do not
// have one yet. Safe to call twice: already-ticketed rows are skipped.
func (r PassengerRepository) AssignTicketNumbers(bookingID int64) error {
	rows, err := r.db().Query(`
		SELECT id FROM booking_passengers
		WHERE booking_id=? AND ticket_number IS NULL`, bookingID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := r.db().Exec(`
			UPDATE booking_passengers SET ticket_number=? WHERE id=? AND ticket_number IS NULL`,
			utils.NewTicketNumber(), id,
		); err != nil {
			return err
		}
	}
	return nil
}

// MarkScanned records a boarding scan once; a second scan is a conflict
// the gate officer should see.
func (r PassengerRepository) MarkScanned(id int64, at time.Time) error {
	res, err := r.db().Exec(`
		UPDATE booking_passengers SET scanned_at=? WHERE id=? AND scanned_at IS NULL AND ticket_number IS NOT NULL`,
		at, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ConflictError{Resource: "passenger", Msg: "tiket belum terbit atau sudah discan"}
	}
	return nil
}
