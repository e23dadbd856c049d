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

type AssociationService interface {
	Register(ctx context.Context, input *entities.RegisterAssociationInput) (*entities.Association, error)
	CreateByAdmin(ctx context.Context, input *entities.RegisterAssociationInput) (*entities.Association, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Association, error)
	List(ctx context.Context, onlyApproved bool) ([]*entities.Association, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.UpdateAssociationInput) (*entities.Association, error)
	Approve(ctx context.Context, id uuid.UUID) (*entities.Association, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*entities.Association, error)
	SetDefault(ctx context.Context, id uuid.UUID) (*entities.Association, error)
	Delete(ctx context.Context, id uuid.UUID) (entities.DeleteAssociationResult, error)
	Metrics(ctx context.Context, id uuid.UUID) (*entities.AssociationMetrics, error)
}

// AssociationHandler handles association endpoints
type AssociationHandler struct {
	associationUsecase AssociationService
}

// NewAssociationHandler creates a new association handler
func NewAssociationHandler(associationUsecase AssociationService) *AssociationHandler {
	return &AssociationHandler{associationUsecase: associationUsecase}
}

// Register handles association self-registration
// POST /api/v1/associations/register
func (h *AssociationHandler) Register(c *gin.Context) {
	var input entities.RegisterAssociationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	association, err := h.associationUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"association": association})
}

// ListPublic lists approved associations for the registration form
// GET /api/v1/associations
func (h *AssociationHandler) ListPublic(c *gin.Context) {
	associations, err := h.associationUsecase.List(c.Request.Context(), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"associations": associations})
}

// GetMine returns the authenticated association's own record
// GET /api/v1/associations/me
func (h *AssociationHandler) GetMine(c *gin.Context) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("association not authenticated"))
		return
	}

	association, err := h.associationUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"association": association})
}

// UpdateMine edits the authenticated association's own profile
// PUT /api/v1/associations/me
func (h *AssociationHandler) UpdateMine(c *gin.Context) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("association not authenticated"))
		return
	}

	var input entities.UpdateAssociationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	association, err := h.associationUsecase.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"association": association})
}

// MyMetrics returns the authenticated association's membership metrics
// GET /api/v1/associations/me/metrics
func (h *AssociationHandler) MyMetrics(c *gin.Context) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("association not authenticated"))
		return
	}

	metrics, err := h.associationUsecase.Metrics(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, metrics)
}

// ListAll lists every association including unapproved ones (admin)
// GET /api/v1/admin/associations
func (h *AssociationHandler) ListAll(c *gin.Context) {
	associations, err := h.associationUsecase.List(c.Request.Context(), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"associations": associations})
}

// Create creates a pre-approved association (admin)
// POST /api/v1/admin/associations
func (h *AssociationHandler) Create(c *gin.Context) {
	var input entities.RegisterAssociationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	association, err := h.associationUsecase.CreateByAdmin(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"association": association})
}

// Get gets one association (admin)
// GET /api/v1/admin/associations/:id
func (h *AssociationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid association id"))
		return
	}

	association, err := h.associationUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"association": association})
}

// Update edits an association (admin)
// PUT /api/v1/admin/associations/:id
func (h *AssociationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid association id"))
		return
	}

	var input entities.UpdateAssociationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	association, err := h.associationUsecase.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"association": association})
}

// Approve approves a pending association (admin)
// POST /api/v1/admin/associations/:id/approve
func (h *AssociationHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid association id"))
		return
	}

	association, err := h.associationUsecase.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"association": association})
}

// ToggleActive flips an association's active flag (admin)
// POST /api/v1/admin/associations/:id/toggle-active
func (h *AssociationHandler) ToggleActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid association id"))
		return
	}

	association, err := h.associationUsecase.ToggleActive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"association": association})
}

// SetDefault designates the system default association (admin)
// POST /api/v1/admin/associations/:id/set-default
func (h *AssociationHandler) SetDefault(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid association id"))
		return
	}

	association, err := h.associationUsecase.SetDefault(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"association": association})
}

// Delete removes an association, deactivating instead when it has members
// DELETE /api/v1/admin/associations/:id
func (h *AssociationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid association id"))
		return
	}

	result, err := h.associationUsecase.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Metrics returns one association's membership metrics (admin)
// GET /api/v1/admin/associations/:id/metrics
func (h *AssociationHandler) Metrics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid association id"))
		return
	}

	metrics, err := h.associationUsecase.Metrics(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, metrics)
}
