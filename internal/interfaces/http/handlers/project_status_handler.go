package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/domain/repositories"
	"habita-coop.backend/internal/interfaces/http/middleware"
	"habita-coop.backend/internal/interfaces/http/response"
)

// ProjectStatusHandler handles construction-progress endpoints
type ProjectStatusHandler struct {
	projectStatusRepo repositories.ProjectStatusRepository
}

// NewProjectStatusHandler creates a new project status handler
func NewProjectStatusHandler(projectStatusRepo repositories.ProjectStatusRepository) *ProjectStatusHandler {
	return &ProjectStatusHandler{projectStatusRepo: projectStatusRepo}
}

// GetMine returns the authenticated member's construction progress. Members
// without a record yet get the initial planning phase at zero percent.
// GET /api/v1/project-status
func (h *ProjectStatusHandler) GetMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	status, err := h.projectStatusRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Success(c, http.StatusOK, gin.H{"projectStatus": &entities.ProjectStatus{
				UserID: userID,
				Phase:  entities.ProjectPhasePlanning,
			}})
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projectStatus": status})
}

// Upsert sets a member's construction progress (admin)
// PUT /api/v1/admin/users/:id/project-status
func (h *ProjectStatusHandler) Upsert(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	var input entities.UpsertProjectStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	if !entities.ValidProjectPhase(input.Phase) {
		response.Error(c, domainerrors.BadRequest("invalid project phase"))
		return
	}
	if input.ProgressPercentage < 0 || input.ProgressPercentage > 100 {
		response.Error(c, domainerrors.BadRequest("progressPercentage must be between 0 and 100"))
		return
	}

	now := time.Now()
	status := &entities.ProjectStatus{
		ID:                 uuid.New(),
		UserID:             userID,
		Phase:              input.Phase,
		ProgressPercentage: input.ProgressPercentage,
		Notes:              null.NewString(input.Notes, input.Notes != ""),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := h.projectStatusRepo.Upsert(c.Request.Context(), status); err != nil {
		response.Error(c, err)
		return
	}

	stored, err := h.projectStatusRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projectStatus": stored})
}
