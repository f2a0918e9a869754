package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	intconfig "ferryapp/internal/config"
	"ferryapp/internal/http/middleware"
	"ferryapp/internal/repositories"
	"ferryapp/internal/services"
	"ferryapp/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = int64(64 << 10)

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		ID          string `json:"id"`
		ReferenceID string `json:"reference_id"`
		ExternalID  string `json:"external_id"`
		Status      string `json:"status"`
	} `json:"data"`
}

// POST /api/webhooks/xendit
//
// Push-side reconciliation. The shared-secret token is checked by exact
// match before anything touches state. Unknown references answer 200:
// the gateway keeps retrying deliveries long after local cleanup, and a
// non-2xx would only make it retry harder.
func XenditWebhook(c *gin.Context) {
	token := c.GetHeader("x-callback-token")
	if intconfig.Cfg.XenditCallbackToken == "" || token != intconfig.Cfg.XenditCallbackToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "callback token tidak valid"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body tidak terbaca"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload tidak valid"})
		return
	}

	reference := payload.Data.ReferenceID
	if reference == "" {
		reference = payload.Data.ExternalID
	}

	paymentRepo := repositories.PaymentRepository{}
	payment, found, err := paymentRepo.GetByExternalID(reference)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !found && payload.Data.ID != "" {
		payment, found, err = paymentRepo.GetByXenditID(payload.Data.ID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	if !found {
		utils.LogEvent(middleware.GetRequestID(c), "webhook", "xendit",
			"reference tidak dikenal: "+reference)
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	status := services.StatusFromEvent(payload.Event, payload.Data.Status)
	if status == "" {
		// Unrecognized event/status: acknowledge without mutating.
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	svc := paymentService(c)
	signal, err := svc.Reconcile(payment, status, raw)
	if err != nil {
		// Non-2xx makes the gateway redeliver; reconciliation is
		// idempotent so the retry is safe.
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"signal": signal})
}
