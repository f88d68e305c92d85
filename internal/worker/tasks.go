package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeHistorySave    = "history:save"
	TypeHistoryCleanup = "history:cleanup"
)

// HistorySavePayload carries one finished search exchange to the queue.
// SearchID correlates the task with the API response that produced it.
type HistorySavePayload struct {
	SearchID            string  `json:"search_id"`
	IngredientsDetected string  `json:"ingredients_detected"`
	RecipesSuggested    string  `json:"recipes_suggested"`
	RecipesJSON         *string `json:"recipes_json,omitempty"`
}

// NewHistorySaveTask creates a new history save task
func NewHistorySaveTask(payload HistorySavePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeHistorySave, data), nil
}

// NewHistoryCleanupTask creates a new retention sweep task
func NewHistoryCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeHistoryCleanup, nil)
}
