package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// HistoryStore is the slice of the history gateway the worker needs.
type HistoryStore interface {
	SaveSearch(ctx context.Context, ingredients, recipesText string, recipesJSON *string) bool
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryProcessor consumes history tasks: the best-effort saves enqueued
// by the API and the daily retention sweep.
type HistoryProcessor struct {
	store     HistoryStore
	retention time.Duration
}

// defaultRetentionDays guards against a zero retention wiping the table.
const defaultRetentionDays = 90

func NewHistoryProcessor(store HistoryStore, retentionDays int) *HistoryProcessor {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &HistoryProcessor{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func (p *HistoryProcessor) HandleHistorySave(ctx context.Context, t *asynq.Task) error {
	var payload HistorySavePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	slog.Info("Saving search history", "search_id", payload.SearchID)

	if ok := p.store.SaveSearch(ctx, payload.IngredientsDetected, payload.RecipesSuggested, payload.RecipesJSON); !ok {
		// A non-nil return hands the task back to asynq for a retry.
		return fmt.Errorf("history save failed for search %s", payload.SearchID)
	}
	return nil
}

func (p *HistoryProcessor) HandleHistoryCleanup(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-p.retention)

	deleted, err := p.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("history cleanup failed: %w", err)
	}

	slog.Info("History retention sweep finished", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	return nil
}
