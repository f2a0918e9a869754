package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "ferryapp/internal/config"
	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
	"ferryapp/internal/repositories"
	"ferryapp/internal/utils"
)

// BookingService membuat booking baru: hitung harga, kunci kursi, dan
// simpan booking + penumpang dalam satu transaksi.
type BookingService struct {
	DB         *sql.DB
	Schedules  repositories.ScheduleRepository
	Bookings   repositories.BookingRepository
	Passengers repositories.PassengerRepository
	Pricelists repositories.PricelistRepository
	Promos     repositories.PromoRepository
	HoldWindow time.Duration
	RequestID  string
	Now        func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) holdWindow() time.Duration {
	if s.HoldWindow > 0 {
		return s.HoldWindow
	}
	return 30 * time.Minute
}

// CreateBooking reserves seats and creates a PENDING booking with an
// expiry deadline. The conditional seat decrement and the booking
// insert share one transaction, so two concurrent requests can never
// both win the same seats. Payment-request creation is a separate
// follow-up step (it talks to the network).
func (s BookingService) CreateBooking(userID, scheduleID int64, passengers []models.PassengerInput, promoCode string) (models.Booking, error) {
	if userID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "user_id", Msg: "id tidak valid"}
	}
	if len(passengers) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "passengers", Msg: "data kosong"}
	}
	clean := make([]models.PassengerInput, 0, len(passengers))
	for _, in := range passengers {
		name := utils.NormalizeSpace(in.Name)
		if name == "" {
			return models.Booking{}, domain.ValidationError{Field: "passengers", Msg: "nama penumpang tidak boleh kosong"}
		}
		clean = append(clean, models.PassengerInput{
			Name:     name,
			IDNumber: utils.TrimOrEmpty(in.IDNumber),
		})
	}

	schedule, err := s.Schedules.GetByID(scheduleID)
	if err != nil {
		return models.Booking{}, err
	}
	if schedule.Status != models.ScheduleScheduled {
		return models.Booking{}, domain.ValidationError{Field: "schedule_id", Msg: "jadwal tidak menerima booking"}
	}

	price, err := s.Pricelists.GetPrice(schedule.RouteFrom, schedule.RouteTo, schedule.TripType)
	if err != nil {
		return models.Booking{}, err
	}

	now := s.now()
	subtotal := price * int64(len(clean))
	var discount int64
	if code := strings.ToUpper(utils.TrimOrEmpty(promoCode)); code != "" {
		promo, ok, err := s.Promos.GetActiveByCode(code, now)
		if err != nil {
			return models.Booking{}, err
		}
		if !ok {
			return models.Booking{}, domain.ValidationError{Field: "promo_code", Msg: "kode promo tidak aktif"}
		}
		discount = subtotal * int64(promo.DiscountPercent) / 100
	}

	expiresAt := now.Add(s.holdWindow())
	booking := models.Booking{
		BookingCode:     utils.NewBookingCode(now),
		UserID:          userID,
		ScheduleID:      scheduleID,
		TotalPassengers: len(clean),
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           subtotal - discount,
		PaymentStatus:   models.BookingPending,
		ExpiresAt:       &expiresAt,
		CreatedAt:       now,
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if err := s.Schedules.ReserveSeats(tx, scheduleID, len(clean)); err != nil {
		_ = tx.Rollback()
		return models.Booking{}, err
	}
	if err := s.Bookings.InsertTx(tx, &booking); err != nil {
		_ = tx.Rollback()
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.Passengers.InsertTx(tx, booking.ID, clean); err != nil {
		_ = tx.Rollback()
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("code=%s schedule_id=%d pax=%d total=%d", booking.BookingCode, scheduleID, len(clean), booking.Total))
	return booking, nil
}
