package llm

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/fridgechef/gusteau/internal/errors"
	"github.com/fridgechef/gusteau/internal/metrics"
	"github.com/fridgechef/gusteau/internal/services/ai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FallbackProvider implements Provider with fallback logic. When the
// primary provider fails with a transient error the secondary is tried
// once; non-transient errors (rate limits, bad requests) surface
// immediately without touching the secondary.
type FallbackProvider struct {
	primary       Provider
	secondary     Provider
	primaryName   string
	secondaryName string
}

// NewFallbackProvider creates a new fallback provider
func NewFallbackProvider(primary, secondary Provider, primaryName, secondaryName string) *FallbackProvider {
	return &FallbackProvider{
		primary:       primary,
		secondary:     secondary,
		primaryName:   primaryName,
		secondaryName: secondaryName,
	}
}

// IdentifyIngredients tries the primary provider first, falls back to the secondary on transient errors
func (f *FallbackProvider) IdentifyIngredients(ctx context.Context, image ImageAsset, locale ai.Locale) (string, error) {
	return f.call(ctx, "identify_ingredients", func(p Provider) (string, error) {
		return p.IdentifyIngredients(ctx, image, locale)
	})
}

// SuggestRecipes tries the primary provider first, falls back to the secondary on transient errors
func (f *FallbackProvider) SuggestRecipes(ctx context.Context, req ai.RecipeRequest) (string, error) {
	return f.call(ctx, "suggest_recipes", func(p Provider) (string, error) {
		return p.SuggestRecipes(ctx, req)
	})
}

func (f *FallbackProvider) call(ctx context.Context, operation string, invoke func(Provider) (string, error)) (string, error) {
	result, err := invoke(f.primary)
	if err == nil {
		return result, nil
	}

	if !IsTransientError(err) {
		slog.Info("Primary provider failed with non-transient error, not attempting fallback",
			"provider", f.primaryName,
			"operation", operation,
			"error_type", errorTypeOf(err),
			"error", err.Error())
		return "", err
	}

	slog.Info("Primary provider failed with transient error, attempting fallback",
		"provider", f.primaryName,
		"fallback_provider", f.secondaryName,
		"operation", operation,
		"error", err.Error())

	metrics.ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_provider", f.primaryName),
		attribute.String("to_provider", f.secondaryName),
		attribute.String("reason", errorTypeOf(err)),
	))

	result, fallbackErr := invoke(f.secondary)
	if fallbackErr == nil {
		slog.Info("Fallback provider succeeded",
			"provider", f.secondaryName,
			"operation", operation)
		return result, nil
	}

	slog.Error("Both primary and fallback providers failed",
		"primary_provider", f.primaryName,
		"primary_error", err.Error(),
		"fallback_provider", f.secondaryName,
		"fallback_error", fallbackErr.Error(),
		"operation", operation)

	return "", errors.NewProviderUnavailableError(
		"both primary and fallback providers failed",
		"PROVIDER_FALLBACK_FAILED",
		err,
	)
}

func errorTypeOf(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return string(appErr.Type)
	}
	return "UNKNOWN"
}
