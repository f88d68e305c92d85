package llm

import (
	"context"

	"github.com/fridgechef/gusteau/internal/services/ai"
	"github.com/fridgechef/gusteau/internal/utils"
)

// RetryingProvider wraps another Provider with bounded retries for
// transient failures. Rate-limit and validation errors pass through
// unchanged on the first attempt.
type RetryingProvider struct {
	inner  Provider
	config utils.RetryConfig
}

// NewRetryingProvider wraps the given provider with the default retry
// policy: up to three attempts with linearly growing delays, retrying
// only errors classified as transient.
func NewRetryingProvider(inner Provider) *RetryingProvider {
	config := utils.DefaultRetryConfig()
	config.RetryIf = IsTransientError
	return &RetryingProvider{inner: inner, config: config}
}

// NewRetryingProviderWithConfig wraps the given provider with a custom
// retry configuration. The RetryIf predicate is always set to the
// transient-error classifier.
func NewRetryingProviderWithConfig(inner Provider, config utils.RetryConfig) *RetryingProvider {
	config.RetryIf = IsTransientError
	return &RetryingProvider{inner: inner, config: config}
}

func (p *RetryingProvider) IdentifyIngredients(ctx context.Context, image ImageAsset, locale ai.Locale) (string, error) {
	return utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		return p.inner.IdentifyIngredients(ctx, image, locale)
	}, p.config)
}

func (p *RetryingProvider) SuggestRecipes(ctx context.Context, req ai.RecipeRequest) (string, error) {
	return utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		return p.inner.SuggestRecipes(ctx, req)
	}, p.config)
}
