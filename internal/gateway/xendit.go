package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ferryapp/internal/domain"
)

// Client is a thin HTTP client for the Xendit payment-requests API.
// It only talks to the gateway; local Payment state is owned by the
// payment service.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateRequest carries what both VA and QR request types need.
type CreateRequest struct {
	ExternalID  string
	Amount      int64
	Channel     string // VA channel code; ignored for QR
	ExpiresAt   time.Time
	Description string
}

// PaymentInfo is the gateway's view of a payment request.
type PaymentInfo struct {
	ID            string
	ReferenceID   string
	Status        string
	AccountNumber string
	QRString      string
	ExpiresAt     *time.Time
	Raw           json.RawMessage
}

type paymentRequestBody struct {
	ReferenceID   string        `json:"reference_id"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Description   string        `json:"description,omitempty"`
	PaymentMethod paymentMethod `json:"payment_method"`
}

type paymentMethod struct {
	Type           string          `json:"type"`
	Reusability    string          `json:"reusability"`
	VirtualAccount *virtualAccount `json:"virtual_account,omitempty"`
	QRCode         *qrCode         `json:"qr_code,omitempty"`
}

type virtualAccount struct {
	ChannelCode       string            `json:"channel_code"`
	ChannelProperties channelProperties `json:"channel_properties"`
}

type qrCode struct {
	ChannelProperties channelProperties `json:"channel_properties"`
}

type channelProperties struct {
	CustomerName string `json:"customer_name,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

type paymentRequestResponse struct {
	ID            string `json:"id"`
	ReferenceID   string `json:"reference_id"`
	Status        string `json:"status"`
	PaymentMethod struct {
		VirtualAccount *struct {
			ChannelProperties struct {
				VirtualAccountNumber string `json:"virtual_account_number"`
				ExpiresAt            string `json:"expires_at"`
			} `json:"channel_properties"`
		} `json:"virtual_account"`
		QRCode *struct {
			ChannelProperties struct {
				QRString  string `json:"qr_string"`
				ExpiresAt string `json:"expires_at"`
			} `json:"channel_properties"`
		} `json:"qr_code"`
	} `json:"payment_method"`
}

// CreateVirtualAccount opens a one-time virtual-account payment request.
func (c *Client) CreateVirtualAccount(ctx context.Context, req CreateRequest) (PaymentInfo, error) {
	body := paymentRequestBody{
		ReferenceID: req.ExternalID,
		Amount:      req.Amount,
		Currency:    "IDR",
		Description: req.Description,
		PaymentMethod: paymentMethod{
			Type:        "VIRTUAL_ACCOUNT",
			Reusability: "ONE_TIME_USE",
			VirtualAccount: &virtualAccount{
				ChannelCode: req.Channel,
				ChannelProperties: channelProperties{
					CustomerName: req.Description,
					ExpiresAt:    req.ExpiresAt.UTC().Format(time.RFC3339),
				},
			},
		},
	}
	return c.createPaymentRequest(ctx, "create_virtual_account", body)
}

// CreateQRCode opens a one-time QRIS payment request.
func (c *Client) CreateQRCode(ctx context.Context, req CreateRequest) (PaymentInfo, error) {
	body := paymentRequestBody{
		ReferenceID: req.ExternalID,
		Amount:      req.Amount,
		Currency:    "IDR",
		Description: req.Description,
		PaymentMethod: paymentMethod{
			Type:        "QR_CODE",
			Reusability: "ONE_TIME_USE",
			QRCode: &qrCode{
				ChannelProperties: channelProperties{
					ExpiresAt: req.ExpiresAt.UTC().Format(time.RFC3339),
				},
			},
		},
	}
	return c.createPaymentRequest(ctx, "create_qr_code", body)
}

func (c *Client) createPaymentRequest(ctx context.Context, op string, body paymentRequestBody) (PaymentInfo, error) {
	raw, err := c.do(ctx, op, http.MethodPost, "/payment_requests", body)
	if err != nil {
		return PaymentInfo{}, err
	}
	return parsePaymentInfo(op, raw)
}

// GetPaymentRequest reads the current gateway status by gateway id.
// Purely a read; reconciling the answer into local state is the
// payment service's job.
func (c *Client) GetPaymentRequest(ctx context.Context, xenditID string) (PaymentInfo, error) {
	raw, err := c.do(ctx, "get_status", http.MethodGet, "/payment_requests/"+xenditID, nil)
	if err != nil {
		return PaymentInfo{}, err
	}
	return parsePaymentInfo("get_status", raw)
}

// SimulatePayment triggers a sandbox payment; dev/test only.
func (c *Client) SimulatePayment(ctx context.Context, xenditID string, amount int64) error {
	payload := map[string]any{"amount": amount}
	_, err := c.do(ctx, "simulate_payment", http.MethodPost, "/payment_requests/"+xenditID+"/payments/simulate", payload)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, domain.GatewayError{Op: op, Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, domain.GatewayError{Op: op, Err: err}
	}
	req.SetBasicAuth(c.APIKey, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, domain.GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domain.GatewayError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.GatewayError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncate(raw, 512)),
		}
	}
	return raw, nil
}

func parsePaymentInfo(op string, raw json.RawMessage) (PaymentInfo, error) {
	var body paymentRequestResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return PaymentInfo{}, domain.GatewayError{Op: op, Err: err}
	}

	info := PaymentInfo{
		ID:          body.ID,
		ReferenceID: body.ReferenceID,
		Status:      body.Status,
		Raw:         raw,
	}

	var expires string
	if va := body.PaymentMethod.VirtualAccount; va != nil {
		info.AccountNumber = va.ChannelProperties.VirtualAccountNumber
		expires = va.ChannelProperties.ExpiresAt
	}
	if qr := body.PaymentMethod.QRCode; qr != nil {
		info.QRString = qr.ChannelProperties.QRString
		if expires == "" {
			expires = qr.ChannelProperties.ExpiresAt
		}
	}
	if expires != "" {
		if t, err := time.Parse(time.RFC3339, expires); err == nil {
			info.ExpiresAt = &t
		}
	}
	return info, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
