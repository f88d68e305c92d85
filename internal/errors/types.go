package errors

import (
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation          ErrorType = "VALIDATION_ERROR"
	ErrorTypeConfiguration       ErrorType = "CONFIGURATION_ERROR"
	ErrorTypeProviderUnavailable ErrorType = "PROVIDER_UNAVAILABLE"
	ErrorTypeProviderAPI         ErrorType = "PROVIDER_API_ERROR"
	ErrorTypeRateLimit           ErrorType = "RATE_LIMIT_ERROR"
	ErrorTypeMalformedResponse   ErrorType = "MALFORMED_RESPONSE"
	ErrorTypePersistence         ErrorType = "PERSISTENCE_ERROR"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal            ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Recovery      string    `json:"recoverySuggestion,omitempty"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// IsRetryable determines if the operation that caused the error should be retried.
// Only transient provider failures (overload, 5xx, connection loss) qualify;
// rate limits and malformed requests are surfaced immediately.
func (e *AppError) IsRetryable() bool {
	return e.Type == ErrorTypeProviderUnavailable
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeNotFound,
		Message:       message,
		StatusCode:    http.StatusNotFound,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewConfigurationError creates an error for missing credentials or settings (503).
// There is no retry story for these: the caller needs to fix the deployment.
func NewConfigurationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeConfiguration,
		Message:       message,
		StatusCode:    http.StatusServiceUnavailable,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewProviderUnavailableError creates a transient provider error (503)
func NewProviderUnavailableError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeProviderUnavailable,
		Message:       message,
		StatusCode:    http.StatusServiceUnavailable,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "The model provider is temporarily unavailable. Try again in a moment.",
		Err:           err,
	}
}

// NewProviderAPIError creates a non-retryable provider error (502),
// covering malformed requests and any vendor error outside the transient classes.
func NewProviderAPIError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeProviderAPI,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Check the submitted image and preferences, then try again.",
		Err:           err,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeRateLimit,
		Message:       message,
		StatusCode:    http.StatusTooManyRequests,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewMalformedResponseError creates an error for an unusable provider envelope (502)
func NewMalformedResponseError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeMalformedResponse,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "The provider returned an unexpected payload. Try again.",
		Err:           err,
	}
}

// NewInternalError creates a catch-all error (500) for failures that have
// no more specific classification.
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInternal,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "INTERNAL_ERROR",
		IsOperational: false,
		Err:           err,
	}
}

// NewPersistenceError creates a history-store error (500). Callers absorb it:
// persistence failures are reported as notices, never propagated into the
// ingredient or recipe flow.
func NewPersistenceError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypePersistence,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Search history is unavailable right now. Recipes are unaffected.",
		Err:           err,
	}
}
