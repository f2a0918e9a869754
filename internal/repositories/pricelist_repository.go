package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "ferryapp/internal/config"
	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
)

type PricelistRepository struct {
	DB *sql.DB
}

func (r PricelistRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetPrice resolves the per-seat price for a route + trip type.
func (r PricelistRepository) GetPrice(routeFrom, routeTo, tripType string) (int64, error) {
	var price int64
	err := r.db().QueryRow(`
		SELECT price FROM pricelists
		WHERE route_from=? AND route_to=? AND trip_type=? LIMIT 1`,
		routeFrom, routeTo, tripType).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NotFoundError{Resource: "pricelist", Err: err}
		}
		return 0, err
	}
	return price, nil
}

type PromoRepository struct {
	DB *sql.DB
}

func (r PromoRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetActiveByCode returns a promo only when it is active and inside its
// validity window at the given instant.
func (r PromoRepository) GetActiveByCode(code string, now time.Time) (models.Promo, bool, error) {
	var p models.Promo
	var startsAt, endsAt sql.NullTime
	err := r.db().QueryRow(`
		SELECT id, code, discount_percent, active, starts_at, ends_at
		FROM promos WHERE code=? LIMIT 1`, code).
		Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.Active, &startsAt, &endsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Promo{}, false, nil
		}
		return models.Promo{}, false, err
	}
	if startsAt.Valid {
		t := startsAt.Time
		p.StartsAt = &t
	}
	if endsAt.Valid {
		t := endsAt.Time
		p.EndsAt = &t
	}

	if !p.Active {
		return models.Promo{}, false, nil
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return models.Promo{}, false, nil
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return models.Promo{}, false, nil
	}
	return p, true, nil
}
