package integration

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fridgechef/gusteau/internal/services/history"
	"github.com/fridgechef/gusteau/internal/worker"
)

// newWorkerMux assembles the task mux the way cmd/worker does, middleware
// included, so tasks run through the same chain they would in production.
func newWorkerMux(t *testing.T, processor *worker.HistoryProcessor) *asynq.ServeMux {
	t.Helper()

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		t.Fatalf("failed to build worker metrics: %v", err)
	}

	mux := asynq.NewServeMux()
	mux.Use(worker.SentryMiddleware)
	mux.Use(worker.OTelMiddleware)
	mux.Use(worker.MetricsMiddleware(workerMetrics))
	mux.HandleFunc(worker.TypeHistorySave, processor.HandleHistorySave)
	mux.HandleFunc(worker.TypeHistoryCleanup, processor.HandleHistoryCleanup)
	return mux
}

func TestWorker_HistorySaveTask_WritesRow(t *testing.T) {
	backend := newHistoryBackend()
	defer backend.Close()

	gateway := history.NewSupabaseGateway(backend.URL(), "service-key")
	processor := worker.NewHistoryProcessor(gateway, 90)
	mux := newWorkerMux(t, processor)

	recipesJSON := `{"recipes":[{"name":"🍳 Omelette"}]}`
	task, err := worker.NewHistorySaveTask(worker.HistorySavePayload{
		SearchID:            "search-1",
		IngredientsDetected: "eggs, butter",
		RecipesSuggested:    "1. **🍳 Omelette**",
		RecipesJSON:         &recipesJSON,
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected task to succeed, got %v", err)
	}

	rows := backend.savedRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 saved row, got %d", len(rows))
	}
	if rows[0].IngredientsDetected != "eggs, butter" {
		t.Errorf("expected ingredients 'eggs, butter', got %q", rows[0].IngredientsDetected)
	}
	if rows[0].RecipesJSON == nil || *rows[0].RecipesJSON != recipesJSON {
		t.Errorf("expected recipes_json stored verbatim, got %v", rows[0].RecipesJSON)
	}
	if rows[0].CreatedAt == "" {
		t.Error("expected a created_at timestamp")
	}
}

func TestWorker_HistorySaveTask_SchemaMismatchFallsBack(t *testing.T) {
	backend := newHistoryBackend()
	defer backend.Close()
	backend.rejectJSONColumn = true

	gateway := history.NewSupabaseGateway(backend.URL(), "service-key")
	processor := worker.NewHistoryProcessor(gateway, 90)
	mux := newWorkerMux(t, processor)

	recipesJSON := `{"recipes":[]}`
	task, err := worker.NewHistorySaveTask(worker.HistorySavePayload{
		SearchID:            "search-2",
		IngredientsDetected: "milk",
		RecipesSuggested:    "some recipes",
		RecipesJSON:         &recipesJSON,
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected the fallback save to succeed, got %v", err)
	}

	if got := backend.insertCount(); got != 2 {
		t.Errorf("expected 2 insert attempts, got %d", got)
	}
	rows := backend.savedRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 saved row, got %d", len(rows))
	}
	if rows[0].RecipesJSON != nil {
		t.Error("expected the stored row to omit recipes_json")
	}
}

func TestWorker_HistorySaveTask_BackendDownReturnsError(t *testing.T) {
	backend := newHistoryBackend()
	backend.Close() // immediately unreachable

	gateway := history.NewSupabaseGateway(backend.URL(), "service-key")
	processor := worker.NewHistoryProcessor(gateway, 90)
	mux := newWorkerMux(t, processor)

	task, err := worker.NewHistorySaveTask(worker.HistorySavePayload{
		SearchID:            "search-3",
		IngredientsDetected: "eggs",
		RecipesSuggested:    "text",
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	// A failed save must surface as an error so asynq retries the task.
	if err := mux.ProcessTask(context.Background(), task); err == nil {
		t.Error("expected an error for an unreachable backend, got nil")
	}
}

func TestWorker_HistoryCleanupTask_SweepsOldRows(t *testing.T) {
	backend := newHistoryBackend()
	defer backend.Close()
	backend.rows = []historyRow{
		{IngredientsDetected: "eggs", RecipesSuggested: "old", CreatedAt: "2024-01-01T00:00:00Z"},
		{IngredientsDetected: "milk", RecipesSuggested: "older", CreatedAt: "2023-06-01T00:00:00Z"},
	}

	gateway := history.NewSupabaseGateway(backend.URL(), "service-key")
	processor := worker.NewHistoryProcessor(gateway, 30)
	mux := newWorkerMux(t, processor)

	if err := mux.ProcessTask(context.Background(), worker.NewHistoryCleanupTask()); err != nil {
		t.Fatalf("expected cleanup to succeed, got %v", err)
	}

	if rows := backend.savedRows(); len(rows) != 0 {
		t.Errorf("expected all rows swept, got %d", len(rows))
	}

	query := backend.deleteQuery()
	if !strings.Contains(query, "created_at=lt.") {
		t.Fatalf("expected a created_at cutoff filter, got %q", query)
	}

	// The cutoff honors the configured retention window.
	raw := strings.TrimPrefix(query, "created_at=lt.")
	cutoff, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatalf("cutoff %q does not parse: %v", raw, err)
	}
	want := time.Now().Add(-30 * 24 * time.Hour)
	if cutoff.Before(want.Add(-time.Minute)) || cutoff.After(want.Add(time.Minute)) {
		t.Errorf("expected cutoff near %v, got %v", want, cutoff)
	}
}

func TestWorker_HistorySaveTask_PayloadRoundTrip(t *testing.T) {
	recipesJSON := `{"recipes":[{"name":"🥘 Shakshuka"}]}`
	payload := worker.HistorySavePayload{
		SearchID:            "search-4",
		IngredientsDetected: "tomatoes, eggs",
		RecipesSuggested:    "1. **🥘 Shakshuka**",
		RecipesJSON:         &recipesJSON,
	}

	task, err := worker.NewHistorySaveTask(payload)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if task.Type() != worker.TypeHistorySave {
		t.Errorf("expected task type %s, got %s", worker.TypeHistorySave, task.Type())
	}

	var decoded worker.HistorySavePayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if decoded.SearchID != payload.SearchID {
		t.Errorf("expected search id %s, got %s", payload.SearchID, decoded.SearchID)
	}
	if decoded.RecipesJSON == nil || *decoded.RecipesJSON != recipesJSON {
		t.Errorf("expected recipes json to round trip, got %v", decoded.RecipesJSON)
	}
}

func TestWorker_UnknownTaskTypeIsRejected(t *testing.T) {
	backend := newHistoryBackend()
	defer backend.Close()

	gateway := history.NewSupabaseGateway(backend.URL(), "service-key")
	mux := newWorkerMux(t, worker.NewHistoryProcessor(gateway, 90))

	err := mux.ProcessTask(context.Background(), asynq.NewTask("history:unknown", nil))
	if err == nil {
		t.Error("expected an error for an unregistered task type, got nil")
	}
}
