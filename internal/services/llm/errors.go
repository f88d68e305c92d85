package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/fridgechef/gusteau/internal/errors"
)

// classifyStatus converts a vendor HTTP response into the application error
// taxonomy. Rate limits surface immediately and are never retried; overload
// and server errors are transient and eligible for retry.
func classifyStatus(provider string, statusCode int, body string) *errors.AppError {
	switch {
	case statusCode == 429 || containsAny(body, "rate_limit_error", "rate limit"):
		return errors.NewRateLimitError(
			fmt.Sprintf("%s rate limit exceeded", provider),
			"PROVIDER_RATE_LIMITED",
			"The provider is throttling requests. Wait a little and try again.",
		)
	case statusCode == 529 || containsAny(body, "overloaded_error", "overloaded"):
		return errors.NewProviderUnavailableError(
			fmt.Sprintf("%s is overloaded (status %d)", provider, statusCode),
			"PROVIDER_OVERLOADED",
			nil,
		)
	case statusCode >= 500:
		return errors.NewProviderUnavailableError(
			fmt.Sprintf("%s server error (status %d)", provider, statusCode),
			"PROVIDER_SERVER_ERROR",
			nil,
		)
	default:
		return errors.NewProviderAPIError(
			fmt.Sprintf("%s request failed (status %d): %s", provider, statusCode, truncateBody(body)),
			"PROVIDER_REQUEST_FAILED",
			nil,
		)
	}
}

// classifyTransport wraps a transport-level failure (DNS, connect, timeout)
// as a transient provider error. A caller-cancelled context is not a
// provider fault and is not retried.
func classifyTransport(provider string, err error) *errors.AppError {
	if stderrors.Is(err, context.Canceled) {
		return errors.NewProviderAPIError(
			fmt.Sprintf("%s request cancelled", provider),
			"PROVIDER_REQUEST_CANCELLED",
			err,
		)
	}
	return errors.NewProviderUnavailableError(
		fmt.Sprintf("%s connection failed", provider),
		"PROVIDER_CONNECTION_ERROR",
		err,
	)
}

// IsTransientError reports whether err belongs to the transient provider
// class (overload, server error, connection failure). Only these errors
// consume retry budget.
func IsTransientError(err error) bool {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.IsRetryable()
	}
	return false
}

func containsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func truncateBody(body string) string {
	const max = 300
	body = strings.TrimSpace(body)
	if len(body) > max {
		return body[:max] + "..."
	}
	return body
}
