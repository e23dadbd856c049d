package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/interfaces/http/middleware"
	"habita-coop.backend/internal/interfaces/http/response"
)

type TermsService interface {
	Publish(ctx context.Context, input *entities.CreateTermInput) (*entities.TermsOfAcceptance, error)
	GetActive(ctx context.Context) (*entities.TermsOfAcceptance, error)
	List(ctx context.Context) ([]*entities.TermsOfAcceptance, error)
	Accept(ctx context.Context, userID, termID uuid.UUID) (*entities.TermAcceptance, error)
	HasAccepted(ctx context.Context, userID uuid.UUID) (bool, *entities.TermsOfAcceptance, error)
}

// TermsHandler handles terms of service endpoints
type TermsHandler struct {
	termsUsecase TermsService
}

// NewTermsHandler creates a new terms handler
func NewTermsHandler(termsUsecase TermsService) *TermsHandler {
	return &TermsHandler{termsUsecase: termsUsecase}
}

// GetActive returns the currently active term version
// GET /api/v1/terms
func (h *TermsHandler) GetActive(c *gin.Context) {
	term, err := h.termsUsecase.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"term": term})
}

// Accept records the member's acceptance of a term version
// POST /api/v1/terms/:id/accept
func (h *TermsHandler) Accept(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}
	termID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid term id"))
		return
	}

	acceptance, err := h.termsUsecase.Accept(c.Request.Context(), userID, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"acceptance": acceptance})
}

// Status reports whether the member accepted the active version
// GET /api/v1/terms/status
func (h *TermsHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	accepted, term, err := h.termsUsecase.HasAccepted(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accepted": accepted, "term": term})
}

// Publish publishes a new term version (admin)
// POST /api/v1/admin/terms
func (h *TermsHandler) Publish(c *gin.Context) {
	var input entities.CreateTermInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	term, err := h.termsUsecase.Publish(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"term": term})
}

// List lists all published versions (admin)
// GET /api/v1/admin/terms
func (h *TermsHandler) List(c *gin.Context) {
	terms, err := h.termsUsecase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"terms": terms})
}
