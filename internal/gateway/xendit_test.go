package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ferryapp/internal/domain"
)

func TestCreateVirtualAccountParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payment_requests" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		user, _, _ := r.BasicAuth()
		if user != "xnd_test_key" {
			t.Errorf("unexpected basic auth user: %q", user)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["reference_id"] != "FRY-20260830-AB12CD34" {
			t.Errorf("unexpected reference_id: %v", body["reference_id"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "pr-123",
			"reference_id": "FRY-20260830-AB12CD34",
			"status": "PENDING",
			"payment_method": {
				"virtual_account": {
					"channel_properties": {
						"virtual_account_number": "8808123456789",
						"expires_at": "2026-08-30T12:00:00Z"
					}
				}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xnd_test_key")
	info, err := c.CreateVirtualAccount(context.Background(), CreateRequest{
		ExternalID: "FRY-20260830-AB12CD34",
		Amount:     150000,
		Channel:    "BCA",
		ExpiresAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateVirtualAccount error: %v", err)
	}
	if info.ID != "pr-123" || info.AccountNumber != "8808123456789" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Status != "PENDING" {
		t.Fatalf("unexpected status: %s", info.Status)
	}
	if info.ExpiresAt == nil || !info.ExpiresAt.Equal(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expires_at: %v", info.ExpiresAt)
	}
}

func TestCreateQRCodeParsesQRString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "pr-456",
			"reference_id": "FRY-X",
			"status": "PENDING",
			"payment_method": {
				"qr_code": {
					"channel_properties": {"qr_string": "00020101021226..."}
				}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xnd_test_key")
	info, err := c.CreateQRCode(context.Background(), CreateRequest{ExternalID: "FRY-X", Amount: 90000, ExpiresAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("CreateQRCode error: %v", err)
	}
	if info.QRString != "00020101021226..." {
		t.Fatalf("unexpected qr string: %q", info.QRString)
	}
}

func TestGetPaymentRequestPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment_requests/pr-123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pr-123","status":"SUCCEEDED"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xnd_test_key")
	info, err := c.GetPaymentRequest(context.Background(), "pr-123")
	if err != nil {
		t.Fatalf("GetPaymentRequest error: %v", err)
	}
	if info.Status != domain.GatewayStatusSucceeded {
		t.Fatalf("unexpected status: %s", info.Status)
	}
}

func TestNon2xxBecomesGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_code":"DUPLICATE_PAYMENT_REQUEST"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xnd_test_key")
	_, err := c.GetPaymentRequest(context.Background(), "pr-999")
	if !domain.IsGatewayError(err) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	var ge domain.GatewayError
	if !errors.As(err, &ge) || ge.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected error detail: %v", err)
	}
}
