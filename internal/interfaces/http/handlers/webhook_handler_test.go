package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
)

type stubSettlementService struct {
	payment *entities.Payment
	err     error

	gotChargeID string
	calls       int
}

func (s *stubSettlementService) SettleByChargeID(_ context.Context, chargeID string, _ *time.Time, _, _ string) (*entities.Payment, error) {
	s.calls++
	s.gotChargeID = chargeID
	return s.payment, s.err
}

func webhookRouter(svc *stubSettlementService, secret string) *gin.Engine {
	r := gin.New()
	r.POST("/webhooks/gateway", NewWebhookHandler(svc, secret).HandleGatewayWebhook)
	return r
}

func TestWebhookHandler_SettlesChargePaid(t *testing.T) {
	svc := &stubSettlementService{payment: &entities.Payment{ID: uuid.New(), Status: entities.PaymentStatusPaid}}
	r := webhookRouter(svc, "")

	w := performRequest(t, r, http.MethodPost, "/webhooks/gateway", gin.H{
		"event":    "charge.paid",
		"chargeId": "ch_123",
		"method":   "pix",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ch_123", svc.gotChargeID)

	body := decodeBody(t, w)
	require.Equal(t, true, body["received"])
}

func TestWebhookHandler_TokenCheck(t *testing.T) {
	svc := &stubSettlementService{payment: &entities.Payment{ID: uuid.New()}}
	r := webhookRouter(svc, "webhook-secret")

	payload := gin.H{"event": "charge.paid", "chargeId": "ch_123"}

	w := performRequest(t, r, http.MethodPost, "/webhooks/gateway", payload, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, 0, svc.calls)

	w = performRequest(t, r, http.MethodPost, "/webhooks/gateway", payload,
		map[string]string{"X-Webhook-Token": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(t, r, http.MethodPost, "/webhooks/gateway", payload,
		map[string]string{"X-Webhook-Token": "webhook-secret"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, svc.calls)
}

func TestWebhookHandler_IgnoresOtherEvents(t *testing.T) {
	svc := &stubSettlementService{}
	r := webhookRouter(svc, "")

	w := performRequest(t, r, http.MethodPost, "/webhooks/gateway", gin.H{
		"event":    "charge.expired",
		"chargeId": "ch_123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, svc.calls)

	body := decodeBody(t, w)
	require.Equal(t, true, body["ignored"])
}

func TestWebhookHandler_UnknownCharge(t *testing.T) {
	svc := &stubSettlementService{err: domainerrors.ErrNotFound}
	r := webhookRouter(svc, "")

	w := performRequest(t, r, http.MethodPost, "/webhooks/gateway", gin.H{
		"event":    "charge.paid",
		"chargeId": "ch_ghost",
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookHandler_BindingValidation(t *testing.T) {
	svc := &stubSettlementService{}
	r := webhookRouter(svc, "")

	w := performRequest(t, r, http.MethodPost, "/webhooks/gateway", gin.H{"event": "charge.paid"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 0, svc.calls)
}
