package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenExpired        = errors.New("token expired")
	ErrUserInactive        = errors.New("user is inactive")
	ErrAssociationPending  = errors.New("association pending approval")
	ErrDefaultAssociation  = errors.New("default association cannot be removed")
	ErrPaymentAlreadyPaid  = errors.New("payment already settled")
	ErrPendingInstallment  = errors.New("user already has a pending installment")
	ErrChargeAlreadyExists = errors.New("payment already has a charge")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

// Conflict reports a uniqueness or state violation. These surface as 400
// with the domain message, not 409.
func Conflict(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// ChargePartialError reports a charge that was created on the gateway but
// whose reference data could not be persisted locally. The caller must not
// re-issue the charge; it can safely re-fetch it by ChargeID.
type ChargePartialError struct {
	ChargeID string
	Err      error
}

func (e *ChargePartialError) Error() string {
	return fmt.Sprintf("charge %s created remotely but not persisted: %v", e.ChargeID, e.Err)
}

func (e *ChargePartialError) Unwrap() error {
	return e.Err
}
