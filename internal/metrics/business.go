package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("gusteau/business")

	// Detection metrics
	IngredientDetectionsTotal   metric.Int64Counter
	IngredientDetectionDuration metric.Float64Histogram

	// Recipe metrics
	RecipeGenerationsTotal metric.Int64Counter

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIGenerationDuration metric.Float64Histogram

	// Provider fallback metrics
	ProviderFallbackTotal metric.Int64Counter

	// Photo lookup metrics
	PhotoLookupsTotal metric.Int64Counter

	// History metrics
	HistorySavesTotal metric.Int64Counter
)

func Init() error {
	var err error

	// Detection metrics
	IngredientDetectionsTotal, err = meter.Int64Counter(
		"ingredient.detections.total",
		metric.WithDescription("Total number of ingredient detection runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	IngredientDetectionDuration, err = meter.Float64Histogram(
		"ingredient.detection.duration",
		metric.WithDescription("Duration of ingredient detection across all photos"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	// Recipe metrics
	RecipeGenerationsTotal, err = meter.Int64Counter(
		"recipe.generations.total",
		metric.WithDescription("Total number of recipe generation runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// External API metrics
	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	// AI metrics
	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI model calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	// Provider fallback metrics
	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of provider fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// Photo lookup metrics
	PhotoLookupsTotal, err = meter.Int64Counter(
		"photo.lookups.total",
		metric.WithDescription("Total number of stock photo lookups"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// History metrics
	HistorySavesTotal, err = meter.Int64Counter(
		"history.saves.total",
		metric.WithDescription("Total number of search history save attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
