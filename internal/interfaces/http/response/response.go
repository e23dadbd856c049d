package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "habita-coop.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error to an HTTP error response
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromSentinel(err)
	}

	c.JSON(appErr.Code, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// fromSentinel maps bare domain sentinels to HTTP statuses so usecases can
// return them without wrapping.
func fromSentinel(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict(err.Error())
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.Unauthorized("invalid credentials")
	case errors.Is(err, domainerrors.ErrTokenExpired):
		return domainerrors.Unauthorized("token has expired")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("forbidden")
	case errors.Is(err, domainerrors.ErrUserInactive):
		return domainerrors.Forbidden("account is deactivated")
	case errors.Is(err, domainerrors.ErrAssociationPending):
		return domainerrors.Forbidden("association is pending approval")
	case errors.Is(err, domainerrors.ErrPaymentAlreadyPaid):
		return domainerrors.Conflict("payment already settled")
	case errors.Is(err, domainerrors.ErrChargeAlreadyExists):
		return domainerrors.Conflict("payment already has a charge")
	case errors.Is(err, domainerrors.ErrGatewayUnavailable):
		return domainerrors.NewAppError(http.StatusBadGateway, "payment gateway unavailable", err)
	default:
		return domainerrors.InternalError(err)
	}
}
