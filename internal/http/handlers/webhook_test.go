package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	intconfig "ferryapp/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/webhooks/xendit", XenditWebhook)
	return r
}

func TestXenditWebhookRejectsBadToken(t *testing.T) {
	intconfig.Cfg.XenditCallbackToken = "rahasia"
	defer func() { intconfig.Cfg.XenditCallbackToken = "" }()

	r := webhookRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/xendit",
		strings.NewReader(`{"event":"payment.succeeded"}`))
	req.Header.Set("x-callback-token", "salah")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestXenditWebhookRejectsWhenTokenUnset(t *testing.T) {
	intconfig.Cfg.XenditCallbackToken = ""

	r := webhookRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/xendit",
		strings.NewReader(`{"event":"payment.succeeded"}`))
	req.Header.Set("x-callback-token", "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when no token configured, got %d", w.Code)
	}
}

func TestXenditWebhookIgnoresUnknownReference(t *testing.T) {
	intconfig.Cfg.XenditCallbackToken = "rahasia"
	defer func() { intconfig.Cfg.XenditCallbackToken = "" }()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	prev := intconfig.DB
	intconfig.DB = db
	defer func() { intconfig.DB = prev }()
	mock.MatchExpectationsInOrder(false)

	// Neither external_id nor xendit_id resolves locally.
	cols := []string{
		"id", "booking_id", "external_id", "xendit_id", "payment_method",
		"amount", "status", "expiration_date", "paid_at", "payload",
		"account_number", "qr_string", "created_at", "updated_at",
	}
	mock.ExpectQuery("FROM payments").WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery("FROM payments").WillReturnRows(sqlmock.NewRows(cols))

	r := webhookRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/xendit",
		strings.NewReader(`{"event":"payment.succeeded","data":{"id":"pr-zzz","reference_id":"FRY-HILANG"}}`))
	req.Header.Set("x-callback-token", "rahasia")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Gateway retries on non-2xx; stale deliveries must be acknowledged.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown reference, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ignored") {
		t.Fatalf("expected ignored ack, got %s", w.Body.String())
	}
}

func TestXenditWebhookRejectsMalformedBody(t *testing.T) {
	intconfig.Cfg.XenditCallbackToken = "rahasia"
	defer func() { intconfig.Cfg.XenditCallbackToken = "" }()

	r := webhookRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/xendit",
		strings.NewReader(`{not json`))
	req.Header.Set("x-callback-token", "rahasia")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
