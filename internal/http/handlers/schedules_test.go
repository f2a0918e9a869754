package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "ferryapp/internal/config"
	"ferryapp/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func scheduleRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/schedules", SearchSchedules)
	r.POST("/api/schedules", CreateSchedule)
	return r
}

func TestSearchSchedulesRejectsMalformedDate(t *testing.T) {
	r := scheduleRouter()

	for _, date := range []string{"30-08-2026", "2026/08/30", "besok", "2026-13-40"} {
		req := httptest.NewRequest(http.MethodGet, "/api/schedules?date="+date, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("date %q: expected 400, got %d", date, w.Code)
		}
	}
}

func TestSearchSchedulesFiltersByValidDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	prev := intconfig.DB
	intconfig.DB = db
	defer func() { intconfig.DB = prev }()

	now := time.Now()
	mock.ExpectQuery("FROM schedules").
		WithArgs(models.ScheduleScheduled, "2026-09-01").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "ship_name", "route_from", "route_to", "trip_type",
			"departure_date", "departure_time", "available_seats", "status",
			"created_at", "updated_at",
		}).AddRow(7, "KM Ferindo", "Merak", "Bakauheni", "reguler",
			"2026-09-01", "08:00", 40, models.ScheduleScheduled, now, now))

	r := scheduleRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/schedules?date=2026-09-01", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "KM Ferindo") {
		t.Fatalf("expected schedule in response, got %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateScheduleRejectsMalformedDate(t *testing.T) {
	r := scheduleRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/schedules",
		strings.NewReader(`{"ship_name":"KM Ferindo","route_from":"Merak","route_to":"Bakauheni","trip_type":"reguler","departure_date":"01-09-2026","departure_time":"08:00","available_seats":40}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", w.Code)
	}
}
