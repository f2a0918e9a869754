package handlers

import (
	"net/http"
	"strconv"

	"ferryapp/internal/domain/models"
	"ferryapp/internal/http/middleware"
	"ferryapp/internal/repositories"

	"github.com/gin-gonic/gin"
)

type createPaymentRequest struct {
	Method string `json:"payment_method"`
}

// POST /api/bookings/:code/payments
func CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "payload tidak valid", nil)
		return
	}

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
	if booking.PaymentStatus != models.BookingPending {
		respondError(c, http.StatusConflict, "conflict", "booking tidak lagi menunggu pembayaran", nil)
		return
	}

	svc := paymentService(c)
	payment, err := svc.CreatePayment(c.Request.Context(), booking, req.Method)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// POST /api/payments/:id/sync
//
// Pull-side reconciliation: asks the gateway for the current status and
// applies it locally. Used by a scheduled sync job and as a manual
// fallback when a webhook went missing.
func SyncPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "id tidak valid", nil)
		return
	}

	paymentRepo := repositories.PaymentRepository{}
	payment, err := paymentRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	svc := paymentService(c)
	signal, err := svc.SyncPaymentStatus(c.Request.Context(), payment)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"signal": signal})
}
