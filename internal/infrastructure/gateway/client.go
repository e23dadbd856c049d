package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"habita-coop.backend/internal/config"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
)

// ChargeRequest is the outbound charge creation payload. The gateway is an
// opaque service: we send a charge request and learn the outcome via the
// inbound webhook.
type ChargeRequest struct {
	PaymentID  uuid.UUID             `json:"paymentId"`
	Method     entities.ChargeMethod `json:"method"`
	Amount     float64               `json:"amount"`
	DueDate    time.Time             `json:"dueDate"`
	PayerName  string                `json:"payerName"`
	PayerEmail string                `json:"payerEmail"`
	PayerCPF   string                `json:"payerCpf,omitempty"`
}

// Charge is the gateway's charge reference data
type Charge struct {
	ChargeID   string `json:"chargeId"`
	PixQRCode  string `json:"pixQrCode,omitempty"`
	BoletoURL  string `json:"boletoUrl,omitempty"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// Client is the HTTP client for the payment gateway
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client bounded by the configured timeout.
// Failures are reported to the caller, never retried here.
func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateCharge requests a PIX or boleto charge from the gateway
func (c *Client) CreateCharge(ctx context.Context, req *ChargeRequest) (*Charge, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: gateway returned status %d", domainerrors.ErrGatewayUnavailable, resp.StatusCode)
	}

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("%w: invalid gateway response: %v", domainerrors.ErrGatewayUnavailable, err)
	}
	if charge.ChargeID == "" {
		return nil, fmt.Errorf("%w: gateway response missing charge id", domainerrors.ErrGatewayUnavailable)
	}
	return &charge, nil
}
