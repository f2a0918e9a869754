package services

import (
	"context"
	"fmt"
	"time"

	"ferryapp/internal/domain/models"
	"ferryapp/internal/utils"
)

type expiringStore interface {
	ListExpiredIDs(now time.Time, limit int) ([]int64, error)
	ExpireBooking(id int64, now time.Time) (bool, error)
	GetByID(id int64) (models.Booking, error)
}

// ExpirationService adalah sweeper: booking PENDING yang melewati
// expires_at dilepas kursinya dan ditandai EXPIRED.
type ExpirationService struct {
	Bookings  expiringStore
	Notifier  notifier
	BatchSize int
	RequestID string
	Now       func() time.Time
}

func (s ExpirationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ExpirePendingBookings expires every overdue PENDING booking it can
// find and returns how many actually transitioned. Each booking is
// handled in its own transaction with a re-check under lock, so a
// payment confirmation that lands mid-sweep wins and the item becomes
// a no-op. One failing item never aborts the rest of the sweep.
func (s ExpirationService) ExpirePendingBookings(ctx context.Context) (int, error) {
	now := s.now()
	ids, err := s.Bookings.ListExpiredIDs(now, s.BatchSize)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		expired, err := s.Bookings.ExpireBooking(id, now)
		if err != nil {
			utils.LogEvent(s.RequestID, "sweeper", "expire",
				fmt.Sprintf("booking_id=%d gagal: %v", id, err))
			continue
		}
		if !expired {
			// Status changed under us (paid concurrently); skip.
			continue
		}
		count++

		if s.Notifier != nil {
			if booking, err := s.Bookings.GetByID(id); err == nil {
				s.Notifier.PublishBookingStatus(booking.BookingCode, models.BookingExpired)
			}
		}
	}

	if count > 0 {
		utils.LogEvent(s.RequestID, "sweeper", "expire", fmt.Sprintf("released %d bookings", count))
	}
	return count, nil
}
