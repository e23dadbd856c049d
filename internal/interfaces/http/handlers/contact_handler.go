package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/domain/repositories"
	"habita-coop.backend/internal/interfaces/http/response"
	"habita-coop.backend/pkg/utils"
)

// ContactHandler handles public contact form submissions. Submissions are
// append-only writes with no business rules, so the handler talks to the
// repository directly.
type ContactHandler struct {
	contactRepo repositories.ContactRepository
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactRepo repositories.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

// Create captures a lead from the public site
// POST /api/v1/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var input entities.CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contact := &entities.ContactSubmission{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     null.NewString(input.Phone, input.Phone != ""),
		Message:   input.Message,
		CreatedAt: time.Now(),
	}
	if err := h.contactRepo.Create(c.Request.Context(), contact); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"contact": contact})
}

// List lists submissions newest first (admin)
// GET /api/v1/admin/contacts
func (h *ContactHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	contacts, total, err := h.contactRepo.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"contacts":   contacts,
		"pagination": utils.CalculateMeta(total, page, limit),
	})
}
