package handlers

import (
	"net/http"

	"ferryapp/internal/domain/models"
	"ferryapp/internal/http/middleware"
	"ferryapp/internal/repositories"

	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	ScheduleID int64                   `json:"schedule_id"`
	Passengers []models.PassengerInput `json:"passengers"`
	PromoCode  string                  `json:"promo_code"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "payload tidak valid", nil)
		return
	}

	auth := middleware.GetAuth(c)
	svc := bookingService(c)
	booking, err := svc.CreateBooking(auth.UserID, req.ScheduleID, req.Passengers, req.PromoCode)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings/:code
func GetBookingByCode(c *gin.Context) {
	bookingRepo := repositories.BookingRepository{}
	booking, err := bookingRepo.GetByCode(c.Param("code"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	auth := middleware.GetAuth(c)
	if auth.Role != "admin" && auth.UserID != booking.UserID {
		respondError(c, http.StatusForbidden, "forbidden", "bukan booking milik anda", nil)
		return
	}

	passengerRepo := repositories.PassengerRepository{}
	passengers, err := passengerRepo.ListByBooking(booking.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	paymentRepo := repositories.PaymentRepository{}
	resp := gin.H{
		"booking":    booking,
		"passengers": passengers,
	}
	if payment, ok, err := paymentRepo.GetLatestByBooking(booking.ID); err == nil && ok {
		resp["payment"] = payment
	}

	c.JSON(http.StatusOK, resp)
}

// DELETE /api/bookings/:code (admin)
//
// Soft delete: the booking disappears from lookups while its payment
// trail stays intact for reconciliation.
func DeleteBooking(c *gin.Context) {
	bookingRepo := repositories.BookingRepository{}
	booking, err := bookingRepo.GetByCode(c.Param("code"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if err := bookingRepo.SoftDelete(booking.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking diarsipkan"})
}
