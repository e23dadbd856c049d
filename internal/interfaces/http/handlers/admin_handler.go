package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"habita-coop.backend/internal/domain/entities"
	domainerrors "habita-coop.backend/internal/domain/errors"
	"habita-coop.backend/internal/interfaces/http/response"
	"habita-coop.backend/internal/usecases"
	"habita-coop.backend/pkg/utils"
)

type UserService interface {
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID) (string, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, profile *entities.UserProfile) (*entities.UserProfile, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context) (*usecases.DashboardResponse, error)
	PaymentsReport(ctx context.Context, start, end time.Time) ([]*entities.Payment, error)
	OverdueReport(ctx context.Context) ([]entities.OverdueReportRow, error)
}

// AdminHandler handles the back-office dashboard, reports and user management
type AdminHandler struct {
	userUsecase      UserService
	dashboardUsecase DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userUsecase UserService, dashboardUsecase DashboardService) *AdminHandler {
	return &AdminHandler{userUsecase: userUsecase, dashboardUsecase: dashboardUsecase}
}

// Dashboard returns platform totals and the 12-month series
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboardUsecase.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboard)
}

// PaymentsReport lists payments due inside a date range
// GET /api/v1/admin/reports/payments?start=2025-01-01&end=2025-03-31
func (h *AdminHandler) PaymentsReport(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("start must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("end must be YYYY-MM-DD"))
		return
	}
	if end.Before(start) {
		response.Error(c, domainerrors.BadRequest("end must not precede start"))
		return
	}

	payments, err := h.dashboardUsecase.PaymentsReport(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

// OverdueReport lists every overdue installment
// GET /api/v1/admin/reports/overdue
func (h *AdminHandler) OverdueReport(c *gin.Context) {
	rows, err := h.dashboardUsecase.OverdueReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"overdue": rows})
}

// ListUsers lists users with optional search and association filters
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := entities.UserFilter{
		Query:      c.Query("q"),
		OnlyActive: c.Query("onlyActive") == "true",
		Page:       page,
		Limit:      limit,
	}
	if assoc := c.Query("associationId"); assoc != "" {
		id, err := uuid.Parse(assoc)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("invalid association id"))
			return
		}
		filter.AssociationID = &id
	}

	users, total, err := h.userUsecase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculateMeta(total, page, limit),
	})
}

// GetUser gets one user
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	user, err := h.userUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// UpdateUser edits a user from the back-office
// PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	var input entities.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.userUsecase.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// ResetUserPassword issues a temporary password for a member
// POST /api/v1/admin/users/:id/reset-password
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	temporary, err := h.userUsecase.ResetPassword(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"temporaryPassword": temporary})
}

// ToggleUserActive flips a member's active flag
// POST /api/v1/admin/users/:id/toggle-active
func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	user, err := h.userUsecase.ToggleActive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// GetUserProfile gets a member's extended profile
// GET /api/v1/admin/users/:id/profile
func (h *AdminHandler) GetUserProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	profile, err := h.userUsecase.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateUserProfile creates or replaces a member's extended profile
// PUT /api/v1/admin/users/:id/profile
func (h *AdminHandler) UpdateUserProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	var profile entities.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	updated, err := h.userUsecase.UpdateProfile(c.Request.Context(), id, &profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": updated})
}
