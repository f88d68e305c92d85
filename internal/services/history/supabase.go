package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fridgechef/gusteau/internal/httpclient"
)

const (
	searchesTable   = "recipe_searches"
	supabaseTimeout = 10 * time.Second
)

// supabaseStore talks to the hosted table store through its PostgREST API.
type supabaseStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newSupabaseStore(supabaseURL, apiKey string) *supabaseStore {
	return &supabaseStore{
		baseURL:    strings.TrimSuffix(supabaseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpclient.NewInstrumentedClient(supabaseTimeout),
	}
}

func (s *supabaseStore) tableURL() string {
	return s.baseURL + "/rest/v1/" + searchesTable
}

func (s *supabaseStore) authorize(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

func (s *supabaseStore) insert(ctx context.Context, rec Record, includeJSON bool) error {
	row := map[string]any{
		"ingredients_detected": rec.IngredientsDetected,
		"recipes_suggested":    rec.RecipesSuggested,
		"created_at":           rec.CreatedAt.Format(time.RFC3339),
	}
	if includeJSON && rec.RecipesJSON != nil {
		row["recipes_json"] = *rec.RecipesJSON
	}

	body, err := json.Marshal(row)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Supabase"), http.MethodPost, s.tableURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("history insert failed (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (s *supabaseStore) selectRecent(ctx context.Context, limit int) ([]Record, error) {
	url := fmt.Sprintf("%s?select=*&order=created_at.desc&limit=%d", s.tableURL(), limit)

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Supabase"), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("history select failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var rows []struct {
		IngredientsDetected string  `json:"ingredients_detected"`
		RecipesSuggested    string  `json:"recipes_suggested"`
		RecipesJSON         *string `json:"recipes_json"`
		CreatedAt           string  `json:"created_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
		if err != nil {
			// Stores may add fractional seconds or drop the zone.
			createdAt, _ = time.Parse("2006-01-02T15:04:05", row.CreatedAt)
		}
		records = append(records, Record{
			IngredientsDetected: row.IngredientsDetected,
			RecipesSuggested:    row.RecipesSuggested,
			RecipesJSON:         row.RecipesJSON,
			CreatedAt:           createdAt,
		})
	}
	return records, nil
}

func (s *supabaseStore) deleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	url := fmt.Sprintf("%s?created_at=lt.%s", s.tableURL(), cutoff.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Supabase"), http.MethodDelete, url, nil)
	if err != nil {
		return 0, err
	}
	s.authorize(req)
	req.Header.Set("Prefer", "return=minimal, count=exact")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("history delete failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	return parseContentRangeTotal(resp.Header.Get("Content-Range")), nil
}

// parseContentRangeTotal extracts the total from a PostgREST Content-Range
// header such as "*/5" or "0-4/5". Unknown shapes count as zero.
func parseContentRangeTotal(header string) int64 {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0
	}
	total, err := strconv.ParseInt(header[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return total
}
