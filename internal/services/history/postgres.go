package history

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore writes directly to Postgres through a pgx pool, for
// deployments that bypass the PostgREST layer.
type postgresStore struct {
	pool *pgxpool.Pool
}

func (s *postgresStore) insert(ctx context.Context, rec Record, includeJSON bool) error {
	if includeJSON {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO recipe_searches (ingredients_detected, recipes_suggested, recipes_json, created_at)
			 VALUES ($1, $2, $3, $4)`,
			rec.IngredientsDetected, rec.RecipesSuggested, rec.RecipesJSON, rec.CreatedAt,
		)
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO recipe_searches (ingredients_detected, recipes_suggested, created_at)
		 VALUES ($1, $2, $3)`,
		rec.IngredientsDetected, rec.RecipesSuggested, rec.CreatedAt,
	)
	return err
}

func (s *postgresStore) selectRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ingredients_detected, recipes_suggested, recipes_json, created_at
		 FROM recipe_searches
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		if isUndefinedColumn(err) {
			return s.selectRecentWithoutJSON(ctx, limit)
		}
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.IngredientsDetected, &rec.RecipesSuggested, &rec.RecipesJSON, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *postgresStore) selectRecentWithoutJSON(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ingredients_detected, recipes_suggested, created_at
		 FROM recipe_searches
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.IngredientsDetected, &rec.RecipesSuggested, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *postgresStore) deleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recipe_searches WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// isUndefinedColumn matches SQLSTATE 42703 (undefined_column).
func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42703"
}
