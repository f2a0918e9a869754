package handlers

import (
	"net/http"
	"strconv"
	"time"

	"ferryapp/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/passengers/:id/eticket
func GetETicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "id tidak valid", nil)
		return
	}

	svc := docsService(c)
	pdf, filename, err := svc.GenerateETicket(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// POST /api/passengers/:id/scan (admin)
func ScanPassenger(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "id tidak valid", nil)
		return
	}

	repo := repositories.PassengerRepository{}
	if err := repo.MarkScanned(id, time.Now()); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "boarding tercatat"})
}
