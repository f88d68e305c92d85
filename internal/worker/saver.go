package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// HistoryEnqueuer hands history saves to the task queue instead of writing
// inline, so a slow history store never stretches a user request. It
// satisfies the pipeline's saver contract; "saved" here means the task
// reached the queue, the worker owns the write from there.
type HistoryEnqueuer struct {
	client *asynq.Client
}

func NewHistoryEnqueuer(client *asynq.Client) *HistoryEnqueuer {
	return &HistoryEnqueuer{client: client}
}

func (e *HistoryEnqueuer) SaveSearch(ctx context.Context, searchID, ingredients, recipesText string, recipesJSON *string) bool {
	task, err := NewHistorySaveTask(HistorySavePayload{
		SearchID:            searchID,
		IngredientsDetected: ingredients,
		RecipesSuggested:    recipesText,
		RecipesJSON:         recipesJSON,
	})
	if err != nil {
		slog.Error("Failed to build history save task", "search_id", searchID, "error", err)
		return false
	}

	info, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	if err != nil {
		slog.Error("Failed to enqueue history save", "search_id", searchID, "error", err)
		return false
	}

	slog.Debug("History save enqueued", "search_id", searchID, "task_id", info.ID)
	return true
}
