package util

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Common error codes
const (
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeRateLimit           = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired        = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid        = "TOKEN_INVALID"
	ErrCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	ErrCodeTradeNotFound       = "TRADE_NOT_FOUND"
	ErrCodePayoutNotFound      = "PAYOUT_NOT_FOUND"
	ErrCodeStrategyNotFound    = "STRATEGY_NOT_FOUND"
	ErrCodePlanNotFound        = "PLAN_NOT_FOUND"
	ErrCodeInsufficientSurplus = "INSUFFICIENT_SURPLUS"
	ErrCodeMentorUnavailable   = "MENTOR_UNAVAILABLE"
)

// NewAppError creates a new application error
func NewAppError(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewAppErrorWithDetails creates a new application error with details
func NewAppErrorWithDetails(statusCode int, code, message, details string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// WrapError wraps an existing error
func WrapError(statusCode int, code, message string, err error) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// Common error constructors

func ErrBadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, ErrCodeBadRequest, message)
}

func ErrUnauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func ErrForbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, ErrCodeForbidden, message)
}

func ErrNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeNotFound, message)
}

func ErrConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, ErrCodeConflict, message)
}

func ErrValidation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, ErrCodeValidation, message)
}

func ErrInternalServer(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, ErrCodeInternal, message)
}

func ErrRateLimit(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, ErrCodeRateLimit, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Domain error constructors

func ErrAccountNotFound() *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeAccountNotFound, "Account not found")
}

func ErrTradeNotFound() *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeTradeNotFound, "Trade not found")
}

func ErrPayoutNotFound() *AppError {
	return NewAppError(http.StatusNotFound, ErrCodePayoutNotFound, "Payout not found")
}

func ErrStrategyNotFound() *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeStrategyNotFound, "Strategy not found")
}

func ErrPlanNotFound() *AppError {
	return NewAppError(http.StatusNotFound, ErrCodePlanNotFound, "Trading plan not found")
}

// ErrInsufficientSurplus rejects a payout larger than the withdrawable surplus
func ErrInsufficientSurplus(details string) *AppError {
	return NewAppErrorWithDetails(http.StatusUnprocessableEntity, ErrCodeInsufficientSurplus,
		"Requested payout exceeds the withdrawable surplus", details)
}

// ErrMentorUnavailable maps an LLM failure to a retryable upstream error
func ErrMentorUnavailable(err error) *AppError {
	return WrapError(http.StatusBadGateway, ErrCodeMentorUnavailable,
		"Mentor is temporarily unavailable", err)
}
