// Package history persists recipe searches to a hosted table store. Every
// operation is best effort: the ingredient and recipe flows never fail
// because the history backend is down.
package history

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fridgechef/gusteau/internal/config"
	"github.com/fridgechef/gusteau/internal/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultLimit bounds history reads when the caller does not supply a limit.
const DefaultLimit = 10

// Record is one persisted search exchange.
type Record struct {
	IngredientsDetected string    `json:"ingredients_detected"`
	RecipesSuggested    string    `json:"recipes_suggested"`
	RecipesJSON         *string   `json:"recipes_json,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// store is the backend contract shared by the PostgREST and Postgres
// implementations. includeJSON drops the recipes_json column for stores
// whose schema predates it.
type store interface {
	insert(ctx context.Context, rec Record, includeJSON bool) error
	selectRecent(ctx context.Context, limit int) ([]Record, error)
	deleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Gateway wraps a history store with the save/load semantics the rest of
// the application relies on. A nil Gateway is valid and reports every save
// as failed and every read as empty.
type Gateway struct {
	store store
	now   func() time.Time
}

// New selects the configured backend: PostgREST against the hosted table
// store by default, or a direct Postgres connection when the history
// backend is set to "postgres" and a pool is supplied. Returns nil when
// persistence is not configured; history is a feature, not a requirement.
func New(cfg *config.Config, pool *pgxpool.Pool) *Gateway {
	if cfg.History.Backend == "postgres" {
		if pool == nil {
			return nil
		}
		return NewPostgresGateway(pool)
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil
	}
	return NewSupabaseGateway(cfg.SupabaseURL, cfg.SupabaseKey)
}

// NewSupabaseGateway creates a gateway backed by the PostgREST API.
func NewSupabaseGateway(supabaseURL, supabaseKey string) *Gateway {
	return &Gateway{store: newSupabaseStore(supabaseURL, supabaseKey), now: time.Now}
}

// NewPostgresGateway creates a gateway backed by a pgx connection pool.
func NewPostgresGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{store: &postgresStore{pool: pool}, now: time.Now}
}

// SaveSearch appends one search exchange to the history table and reports
// whether it succeeded. When the store rejects the recipes_json column as
// unknown, the insert is retried once without it. Failures are logged and
// absorbed here; they never propagate into the recipe flow.
func (g *Gateway) SaveSearch(ctx context.Context, ingredients, recipesText string, recipesJSON *string) bool {
	if g == nil || g.store == nil {
		return false
	}

	rec := Record{
		IngredientsDetected: ingredients,
		RecipesSuggested:    recipesText,
		RecipesJSON:         recipesJSON,
		CreatedAt:           g.now(),
	}

	err := g.store.insert(ctx, rec, true)
	if err != nil && isUnknownColumnError(err) {
		slog.Warn("History table has no recipes_json column, retrying with reduced field set", "error", err)
		err = g.store.insert(ctx, rec, false)
	}

	status := "ok"
	if err != nil {
		status = "error"
		slog.Warn("Failed to save search history", "error", err)
	}
	metrics.HistorySavesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))

	return err == nil
}

// LoadRecentSearches returns up to limit records, most recent first. Any
// failure yields an empty slice and a non-nil error the caller may surface
// as a notice; the error is already logged here.
func (g *Gateway) LoadRecentSearches(ctx context.Context, limit int) ([]Record, error) {
	if g == nil || g.store == nil {
		return []Record{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	records, err := g.store.selectRecent(ctx, limit)
	if err != nil {
		slog.Warn("Failed to load search history", "error", err)
		return []Record{}, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// DeleteOlderThan removes records created before the cutoff and returns
// how many were deleted. Used by the retention sweep; the user-facing flow
// never calls it.
func (g *Gateway) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if g == nil || g.store == nil {
		return 0, nil
	}
	return g.store.deleteOlderThan(ctx, cutoff)
}

// isUnknownColumnError recognizes the two shapes of a schema mismatch on
// recipes_json: the PostgREST missing-column code and the Postgres
// undefined-column SQLSTATE.
func isUnknownColumnError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "PGRST204") ||
		strings.Contains(msg, "42703") ||
		(strings.Contains(msg, "recipes_json") && strings.Contains(strings.ToLower(msg), "column"))
}
