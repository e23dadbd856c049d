package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/interfaces/http/response"
	"habita-coop.backend/pkg/logger"
)

type WebhookSettlementService interface {
	SettleByChargeID(ctx context.Context, chargeID string, paidAt *time.Time, transactionID, method string) (*entities.Payment, error)
}

// WebhookHandler receives payment confirmations from the gateway
type WebhookHandler struct {
	paymentUsecase WebhookSettlementService
	secret         string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(paymentUsecase WebhookSettlementService, secret string) *WebhookHandler {
	return &WebhookHandler{paymentUsecase: paymentUsecase, secret: secret}
}

type gatewayWebhookInput struct {
	Event         string     `json:"event" binding:"required"`
	ChargeID      string     `json:"chargeId" binding:"required"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	Method        string     `json:"method,omitempty"`
}

// HandleGatewayWebhook processes charge events from the payment gateway.
// Redelivery of an already-settled charge is acknowledged with 200.
// POST /api/v1/webhooks/gateway
func (h *WebhookHandler) HandleGatewayWebhook(c *gin.Context) {
	if h.secret != "" {
		token := c.GetHeader("X-Webhook-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
			response.Error(c, domainerrors.Unauthorized("invalid webhook token"))
			return
		}
	}

	var input gatewayWebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if input.Event != "charge.paid" {
		// Unhandled event types are acknowledged so the gateway stops
		// redelivering them.
		response.Success(c, http.StatusOK, gin.H{"received": true, "ignored": true})
		return
	}

	payment, err := h.paymentUsecase.SettleByChargeID(c.Request.Context(), input.ChargeID, input.PaidAt, input.TransactionID, input.Method)
	if err != nil {
		logger.Error(c.Request.Context(), "webhook settlement failed",
			zap.String("charge_id", input.ChargeID), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true, "paymentId": payment.ID})
}
