package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/interfaces/http/middleware"
	"habita-coop.backend/internal/interfaces/http/response"
	"habita-coop.backend/pkg/utils"
)

type PaymentService interface {
	NextInstallment(ctx context.Context, userID uuid.UUID) (*entities.NextInstallment, error)
	EnsureNextInstallment(ctx context.Context, userID uuid.UUID) (*entities.Payment, error)
	MarkPaid(ctx context.Context, paymentID uuid.UUID, input *entities.MarkPaidInput) (*entities.Payment, error)
	MarkPaidByOwner(ctx context.Context, userID, paymentID uuid.UUID, input *entities.MarkPaidInput) (*entities.Payment, error)
	CreateCharge(ctx context.Context, userID uuid.UUID, input *entities.CreateChargeInput) (*entities.ChargeData, error)
	ListUserPayments(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Payment, int64, error)
	ComplianceStats(ctx context.Context, userID uuid.UUID) (*entities.ComplianceStats, error)
}

// PaymentHandler handles the member payment surface
type PaymentHandler struct {
	paymentUsecase PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUsecase PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// ListMyPayments lists the authenticated member's payments
// GET /api/v1/payments
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	payments, total, err := h.paymentUsecase.ListUserPayments(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": utils.CalculateMeta(total, page, limit),
	})
}

// NextInstallment returns the member's next installment, materialized or not
// GET /api/v1/payments/next
func (h *PaymentHandler) NextInstallment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	next, err := h.paymentUsecase.NextInstallment(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"nextPayment": next})
}

// Compliance returns the member's payment standing
// GET /api/v1/payments/compliance
func (h *PaymentHandler) Compliance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	stats, err := h.paymentUsecase.ComplianceStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// CreateCharge requests a PIX or boleto charge for the member's installment
// POST /api/v1/payments/charge
func (h *PaymentHandler) CreateCharge(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	var input entities.CreateChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	charge, err := h.paymentUsecase.CreateCharge(c.Request.Context(), userID, &input)
	if err != nil {
		var partial *domainerrors.ChargePartialError
		if errors.As(err, &partial) {
			// The charge exists on the gateway side; tell the client to retry
			// a fetch rather than issue a new charge.
			c.JSON(http.StatusAccepted, gin.H{
				"chargeId": partial.ChargeID,
				"message":  "charge created but not yet confirmed, retry shortly",
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, charge)
}

// MarkPaidMine settles one of the authenticated member's own installments
// POST /api/v1/payments/:id/mark-paid
func (h *PaymentHandler) MarkPaidMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid payment id"))
		return
	}

	var input entities.MarkPaidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	payment, err := h.paymentUsecase.MarkPaidByOwner(c.Request.Context(), userID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}

// MarkPaid settles an installment manually (admin back-office)
// POST /api/v1/admin/payments/:id/mark-paid
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid payment id"))
		return
	}

	var input entities.MarkPaidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	payment, err := h.paymentUsecase.MarkPaid(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}

// EnsureNext materializes a member's next installment (admin back-office)
// POST /api/v1/admin/users/:id/payments/ensure-next
func (h *PaymentHandler) EnsureNext(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	payment, err := h.paymentUsecase.EnsureNextInstallment(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}

// UserCompliance returns another member's standing (admin back-office)
// GET /api/v1/admin/users/:id/compliance
func (h *PaymentHandler) UserCompliance(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	stats, err := h.paymentUsecase.ComplianceStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
