package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "ferryapp/internal/config"
	intdb "ferryapp/internal/db"
	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
)

type ScheduleRepository struct {
	DB *sql.DB
}

func (r ScheduleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const scheduleColumns = `id, ship_name, route_from, route_to, trip_type,
       departure_date, departure_time, available_seats, status, created_at, updated_at`

func scanSchedule(row *sql.Row) (models.Schedule, error) {
	var s models.Schedule
	err := row.Scan(
		&s.ID,
		&s.ShipName,
		&s.RouteFrom,
		&s.RouteTo,
		&s.TripType,
		&s.DepartureDate,
		&s.DepartureTime,
		&s.AvailableSeats,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Schedule{}, domain.NotFoundError{Resource: "schedule", Err: err}
		}
		return models.Schedule{}, err
	}
	return s, nil
}

func (r ScheduleRepository) GetByID(id int64) (models.Schedule, error) {
	if id <= 0 {
		return models.Schedule{}, domain.ValidationError{Field: "schedule_id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(`SELECT `+scheduleColumns+` FROM schedules WHERE id=? LIMIT 1`, id)
	return scanSchedule(row)
}

// Search lists SCHEDULED departures, optionally filtered by date and route.
func (r ScheduleRepository) Search(date, from, to string) ([]models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE status=?`
	args := []any{models.ScheduleScheduled}

	if date = strings.TrimSpace(date); date != "" {
		query += ` AND departure_date=?`
		args = append(args, date)
	}
	if from = strings.TrimSpace(from); from != "" {
		query += ` AND route_from=?`
		args = append(args, from)
	}
	if to = strings.TrimSpace(to); to != "" {
		query += ` AND route_to=?`
		args = append(args, to)
	}
	query += ` ORDER BY departure_date, departure_time`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(
			&s.ID,
			&s.ShipName,
			&s.RouteFrom,
			&s.RouteTo,
			&s.TripType,
			&s.DepartureDate,
			&s.DepartureTime,
			&s.AvailableSeats,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ScheduleRepository) Create(s models.Schedule) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO schedules
			(ship_name, route_from, route_to, trip_type, departure_date, departure_time, available_seats, status)
		VALUES (?,?,?,?,?,?,?,?)`,
		s.ShipName, s.RouteFrom, s.RouteTo, s.TripType, s.DepartureDate, s.DepartureTime, s.AvailableSeats, s.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ScheduleRepository) UpdateStatus(id int64, status string) error {
	if id <= 0 {
		return domain.ValidationError{Field: "schedule_id", Msg: "id tidak valid"}
	}
	res, err := r.db().Exec(`UPDATE schedules SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "schedule"}
	}
	return nil
}

// ReserveSeats atomically checks available_seats >= qty and decrements.
// The conditional UPDATE is the lock: a concurrent booker racing for the
// last seats loses on rows-affected, never on a stale read. Pass an open
// *sql.Tx as ex to fold the decrement into a booking transaction; pass
// nil to run against the shared pool.
func (r ScheduleRepository) ReserveSeats(ex intdb.Execer, scheduleID int64, qty int) error {
	if qty <= 0 {
		return domain.ValidationError{Field: "qty", Msg: "jumlah kursi harus > 0"}
	}
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`
		UPDATE schedules
		SET available_seats = available_seats - ?, updated_at = NOW()
		WHERE id = ? AND available_seats >= ?`,
		qty, scheduleID, qty,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.InsufficientSeatsError{ScheduleID: scheduleID, Requested: qty}
	}
	return nil
}

// ReleaseSeats atomically returns qty seats to the schedule. Used by the
// expiration sweeper and compensation paths; releasing beyond capacity
// indicates a bug upstream, not a condition corrected here.
func (r ScheduleRepository) ReleaseSeats(ex intdb.Execer, scheduleID int64, qty int) error {
	if qty <= 0 {
		return domain.ValidationError{Field: "qty", Msg: "jumlah kursi harus > 0"}
	}
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`
		UPDATE schedules
		SET available_seats = available_seats + ?, updated_at = NOW()
		WHERE id = ?`,
		qty, scheduleID,
	)
	return err
}

// TryReserve is the reconciler-facing wrapper: false means the seats are
// genuinely gone, which is an answer rather than an error there.
func (r ScheduleRepository) TryReserve(scheduleID int64, qty int) (bool, error) {
	err := r.ReserveSeats(nil, scheduleID, qty)
	if err == nil {
		return true, nil
	}
	if domain.IsInsufficientSeats(err) {
		return false, nil
	}
	return false, err
}
