// Package pipeline orchestrates the two user flows: fridge photos to a
// deduplicated ingredient list, and an edited list to suggested recipes.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/fridgechef/gusteau/internal/enrich"
	"github.com/fridgechef/gusteau/internal/metrics"
	"github.com/fridgechef/gusteau/internal/parser"
	"github.com/fridgechef/gusteau/internal/services/ai"
	"github.com/fridgechef/gusteau/internal/services/history"
	"github.com/fridgechef/gusteau/internal/services/llm"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HistorySaver persists one finished search exchange and reports whether
// it succeeded. Implementations are best effort; a failed save never
// fails the recipe flow.
type HistorySaver interface {
	SaveSearch(ctx context.Context, searchID, ingredients, recipesText string, recipesJSON *string) bool
}

// GatewaySaver saves inline through the history gateway. Used when no
// task queue is configured.
type GatewaySaver struct {
	Gateway *history.Gateway
}

func (s GatewaySaver) SaveSearch(ctx context.Context, _ string, ingredients, recipesText string, recipesJSON *string) bool {
	return s.Gateway.SaveSearch(ctx, ingredients, recipesText, recipesJSON)
}

// Pipeline runs the user-facing flows against one configured provider.
// saver may be nil when history persistence is disabled.
type Pipeline struct {
	provider llm.Provider
	saver    HistorySaver
}

func New(provider llm.Provider, saver HistorySaver) *Pipeline {
	return &Pipeline{provider: provider, saver: saver}
}

// DetectIngredients identifies ingredients on each photo, strictly in
// order with one provider call per image, and merges the responses into
// a single deduplicated list. Detection is all or nothing: a photo that
// fails after retries fails the whole batch and no list is produced.
func (p *Pipeline) DetectIngredients(ctx context.Context, images []llm.ImageAsset, locale ai.Locale) ([]string, error) {
	startTime := time.Now()
	status := "ok"
	defer func() {
		attrs := []attribute.KeyValue{
			attribute.String("status", status),
			attribute.Int("image_count", len(images)),
		}
		metrics.IngredientDetectionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
		metrics.IngredientDetectionDuration.Record(ctx, time.Since(startTime).Seconds(), metric.WithAttributes(attrs...))
	}()

	texts := make([]string, 0, len(images))
	for i, image := range images {
		text, err := p.provider.IdentifyIngredients(ctx, image, locale)
		if err != nil {
			status = "error"
			slog.Error("Ingredient detection failed", "image_index", i+1, "image_count", len(images), "error", err)
			return nil, err
		}
		texts = append(texts, text)
	}

	return parser.MergeIngredientLists(texts...), nil
}

// SuggestResult is the outcome of one suggestion run. SearchID correlates
// the API response, the history record and the worker task. Saved reports
// whether the exchange reached the history backend (or its queue).
type SuggestResult struct {
	SearchID string
	Result   parser.RecipeResult
	Saved    bool
}

// SuggestRecipes asks the provider for recipes, parses the response into
// its structured or degraded form, enriches structured names with emoji
// and hands the exchange to the history saver. A response that fails the
// JSON contract degrades to raw text; it is never an error.
func (p *Pipeline) SuggestRecipes(ctx context.Context, req ai.RecipeRequest) (*SuggestResult, error) {
	raw, err := p.provider.SuggestRecipes(ctx, req)
	if err != nil {
		metrics.RecipeGenerationsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", "error"),
			attribute.String("result", "none"),
		))
		return nil, err
	}

	result := parser.ParseRecipeResponse(raw)

	var historyText string
	var recipesJSON *string
	resultKind := "structured"
	if result.IsDegraded() {
		resultKind = "degraded"
		historyText = result.Degraded.RawText
	} else {
		for i := range result.Set.Recipes {
			result.Set.Recipes[i].Name = enrich.EnsureRecipeEmoji(result.Set.Recipes[i].Name)
		}
		historyText = enrich.FormatRecipeText(result.Set)
		if encoded, err := json.Marshal(result.Set); err == nil {
			encodedText := string(encoded)
			recipesJSON = &encodedText
		}
	}

	searchID := uuid.New().String()
	saved := false
	if p.saver != nil {
		saved = p.saver.SaveSearch(ctx, searchID, strings.Join(req.Ingredients, ", "), historyText, recipesJSON)
	}

	metrics.RecipeGenerationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", "ok"),
		attribute.String("result", resultKind),
	))

	return &SuggestResult{SearchID: searchID, Result: result, Saved: saved}, nil
}
