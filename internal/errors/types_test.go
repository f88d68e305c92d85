package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{
		Message: "something went wrong",
	}
	if err.Error() != "something went wrong" {
		t.Errorf("expected 'something went wrong', got %v", err.Error())
	}

	wrappedErr := errors.New("underlying error")
	errWithWrap := &AppError{
		Message: "failed operation",
		Err:     wrappedErr,
	}
	expected := "failed operation: underlying error"
	if errWithWrap.Error() != expected {
		t.Errorf("expected %q, got %q", expected, errWithWrap.Error())
	}
}

func TestAppError_Code(t *testing.T) {
	err := &AppError{
		ErrorCode: "ERR_CODE_123",
	}
	if err.Code() != "ERR_CODE_123" {
		t.Errorf("expected ERR_CODE_123, got %v", err.Code())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("connection reset")
	err := NewProviderUnavailableError("call failed", "PROVIDER_DOWN", underlying)
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestAppError_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want bool
	}{
		{
			name: "transient provider failure is retryable",
			err: &AppError{
				Type:       ErrorTypeProviderUnavailable,
				StatusCode: http.StatusServiceUnavailable,
			},
			want: true,
		},
		{
			name: "rate limit is never retried",
			err: &AppError{
				Type:       ErrorTypeRateLimit,
				StatusCode: http.StatusTooManyRequests,
			},
			want: false,
		},
		{
			name: "malformed request is not retryable",
			err: &AppError{
				Type:       ErrorTypeProviderAPI,
				StatusCode: http.StatusBadGateway,
			},
			want: false,
		},
		{
			name: "validation error is not retryable",
			err: &AppError{
				Type:       ErrorTypeValidation,
				StatusCode: http.StatusBadRequest,
			},
			want: false,
		},
		{
			name: "persistence failure is not retryable",
			err: &AppError{
				Type:       ErrorTypePersistence,
				StatusCode: http.StatusInternalServerError,
			},
			want: false,
		},
		{
			name: "404 not found is not retryable",
			err: &AppError{
				Type:       ErrorTypeNotFound,
				StatusCode: http.StatusNotFound,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("AppError.IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid input", "VALIDATION_FAILED", "Check your fields")
	if err.Type != ErrorTypeValidation {
		t.Errorf("expected TypeValidation, got %v", err.Type)
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err.StatusCode)
	}
	if err.RecoverySuggestion() != "Check your fields" {
		t.Errorf("expected 'Check your fields', got %v", err.RecoverySuggestion())
	}
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("no model credential configured", "NO_CREDENTIAL", "Set ANTHROPIC_API_KEY or OPENAI_API_KEY")
	if err.Type != ErrorTypeConfiguration {
		t.Errorf("expected TypeConfiguration, got %v", err.Type)
	}
	if err.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", err.StatusCode)
	}
	if err.IsRetryable() {
		t.Error("configuration errors must not be retryable")
	}
}

func TestNewProviderUnavailableError(t *testing.T) {
	underlying := errors.New("dial tcp: connection refused")
	err := NewProviderUnavailableError("provider call failed", "PROVIDER_DOWN", underlying)
	if err.Type != ErrorTypeProviderUnavailable {
		t.Errorf("expected TypeProviderUnavailable, got %v", err.Type)
	}
	if err.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", err.StatusCode)
	}
	if err.Err != underlying {
		t.Error("underlying error not correctly wrapped")
	}
}

func TestNewPersistenceError(t *testing.T) {
	underlying := errors.New("insert failed")
	err := NewPersistenceError("could not save search", "HISTORY_SAVE_FAILED", underlying)
	if err.Type != ErrorTypePersistence {
		t.Errorf("expected TypePersistence, got %v", err.Type)
	}
	if err.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err.StatusCode)
	}
	if err.Err != underlying {
		t.Error("underlying error not correctly wrapped")
	}
}
