package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"ferryapp/internal/domain/models"
	"ferryapp/internal/repositories"
	"ferryapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/schedules?date=YYYY-MM-DD&from=...&to=...
func SearchSchedules(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date != "" {
		if _, err := utils.ParseDate(date); err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "format tanggal harus YYYY-MM-DD", nil)
			return
		}
	}

	repo := repositories.ScheduleRepository{}
	schedules, err := repo.Search(date, c.Query("from"), c.Query("to"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GET /api/schedules/:id
func GetScheduleByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "id tidak valid", nil)
		return
	}
	repo := repositories.ScheduleRepository{}
	schedule, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

type createScheduleRequest struct {
	ShipName       string `json:"ship_name"`
	RouteFrom      string `json:"route_from"`
	RouteTo        string `json:"route_to"`
	TripType       string `json:"trip_type"`
	DepartureDate  string `json:"departure_date"`
	DepartureTime  string `json:"departure_time"`
	AvailableSeats int    `json:"available_seats"`
}

// POST /api/schedules (admin)
func CreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "payload tidak valid", nil)
		return
	}
	if strings.TrimSpace(req.ShipName) == "" || strings.TrimSpace(req.RouteFrom) == "" ||
		strings.TrimSpace(req.RouteTo) == "" || req.AvailableSeats <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "data jadwal tidak lengkap", nil)
		return
	}
	if _, err := utils.ParseDate(req.DepartureDate); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "format tanggal keberangkatan harus YYYY-MM-DD", nil)
		return
	}

	repo := repositories.ScheduleRepository{}
	id, err := repo.Create(models.Schedule{
		ShipName:       strings.TrimSpace(req.ShipName),
		RouteFrom:      strings.TrimSpace(req.RouteFrom),
		RouteTo:        strings.TrimSpace(req.RouteTo),
		TripType:       strings.TrimSpace(req.TripType),
		DepartureDate:  strings.TrimSpace(req.DepartureDate),
		DepartureTime:  strings.TrimSpace(req.DepartureTime),
		AvailableSeats: req.AvailableSeats,
		Status:         models.ScheduleScheduled,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type scheduleStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/schedules/:id/status (admin)
func UpdateScheduleStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "id tidak valid", nil)
		return
	}
	var req scheduleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "payload tidak valid", nil)
		return
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case models.ScheduleScheduled, models.ScheduleDeparted, models.ScheduleCancelled, models.ScheduleCompleted:
	default:
		respondError(c, http.StatusBadRequest, "validation_error", "status tidak dikenal", nil)
		return
	}

	repo := repositories.ScheduleRepository{}
	if err := repo.UpdateStatus(id, status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status diperbarui"})
}
