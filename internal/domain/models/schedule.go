package models

import "time"

// Schedule statuses.
const (
	ScheduleScheduled = "SCHEDULED"
	ScheduleDeparted  = "DEPARTED"
	ScheduleCancelled = "CANCELLED"
	ScheduleCompleted = "COMPLETED"
)

// Schedule is one ferry departure. AvailableSeats is mutated only via
// atomic increment/decrement in ScheduleRepository.
type Schedule struct {
	ID             int64     `json:"id"`
	ShipName       string    `json:"ship_name"`
	RouteFrom      string    `json:"route_from"`
	RouteTo        string    `json:"route_to"`
	TripType       string    `json:"trip_type"`
	DepartureDate  string    `json:"departure_date"`
	DepartureTime  string    `json:"departure_time"`
	AvailableSeats int       `json:"available_seats"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Pricelist maps a route + trip type to a per-seat price in Rupiah.
type Pricelist struct {
	ID        int64  `json:"id"`
	RouteFrom string `json:"route_from"`
	RouteTo   string `json:"route_to"`
	TripType  string `json:"trip_type"`
	Price     int64  `json:"price"`
}

// Promo is a discount code applied at booking time.
type Promo struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	Active          bool       `json:"active"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
}
