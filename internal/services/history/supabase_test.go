package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestSupabaseStore(srv *httptest.Server) *supabaseStore {
	return &supabaseStore{
		baseURL:    srv.URL,
		apiKey:     "test-service-key",
		httpClient: srv.Client(),
	}
}

func TestSupabaseInsert_SendsRow(t *testing.T) {
	var captured struct {
		path    string
		method  string
		headers http.Header
		row     map[string]any
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.method = r.Method
		captured.headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&captured.row); err != nil {
			t.Errorf("Failed to decode insert body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := newTestSupabaseStore(srv)
	recipesJSON := `{"recipes":[{"name":"Omelette"}]}`
	rec := Record{
		IngredientsDetected: "- eggs\n- butter",
		RecipesSuggested:    "1. **Omelette**",
		RecipesJSON:         &recipesJSON,
		CreatedAt:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := store.insert(context.Background(), rec, true); err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}

	if captured.method != http.MethodPost || captured.path != "/rest/v1/recipe_searches" {
		t.Errorf("Unexpected request: %s %s", captured.method, captured.path)
	}
	if captured.headers.Get("apikey") != "test-service-key" {
		t.Error("Expected apikey header")
	}
	if captured.headers.Get("Authorization") != "Bearer test-service-key" {
		t.Error("Expected bearer authorization")
	}
	if captured.headers.Get("Prefer") != "return=minimal" {
		t.Errorf("Unexpected Prefer header: %q", captured.headers.Get("Prefer"))
	}
	if captured.row["ingredients_detected"] != "- eggs\n- butter" {
		t.Errorf("Unexpected ingredients: %v", captured.row["ingredients_detected"])
	}
	if captured.row["created_at"] != "2025-06-01T12:00:00Z" {
		t.Errorf("Unexpected created_at: %v", captured.row["created_at"])
	}
	if captured.row["recipes_json"] != recipesJSON {
		t.Errorf("Unexpected recipes_json: %v", captured.row["recipes_json"])
	}
}

func TestSupabaseInsert_OmitsJSONWhenExcluded(t *testing.T) {
	var row map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			t.Errorf("Failed to decode insert body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := newTestSupabaseStore(srv)
	recipesJSON := `{"recipes":[]}`
	rec := Record{RecipesJSON: &recipesJSON, CreatedAt: time.Now()}

	if err := store.insert(context.Background(), rec, false); err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}
	if _, present := row["recipes_json"]; present {
		t.Error("Expected recipes_json to be omitted")
	}
}

func TestSupabaseInsert_SchemaMismatchTriggersGatewayFallback(t *testing.T) {
	var attempts []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			t.Errorf("Failed to decode insert body: %v", err)
		}
		attempts = append(attempts, row)
		if _, hasJSON := row["recipes_json"]; hasJSON {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":"PGRST204","message":"Could not find the 'recipes_json' column of 'recipe_searches' in the schema cache"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	g := &Gateway{store: newTestSupabaseStore(srv), now: time.Now}
	recipesJSON := `{"recipes":[]}`

	if ok := g.SaveSearch(context.Background(), "eggs", "recipes", &recipesJSON); !ok {
		t.Fatal("Expected save to succeed through the schema fallback")
	}
	if len(attempts) != 2 {
		t.Fatalf("Expected 2 attempts, got %d", len(attempts))
	}
	if _, hasJSON := attempts[1]["recipes_json"]; hasJSON {
		t.Error("Expected the retry to drop recipes_json")
	}
}

func TestSupabaseSelectRecent_DecodesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Unexpected method: %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("order") != "created_at.desc" {
			t.Errorf("Unexpected order: %q", q.Get("order"))
		}
		if q.Get("limit") != "3" {
			t.Errorf("Unexpected limit: %q", q.Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"ingredients_detected":"- eggs","recipes_suggested":"1. **Omelette**","recipes_json":"{\"recipes\":[]}","created_at":"2025-06-01T12:00:00Z"},
			{"ingredients_detected":"- rice","recipes_suggested":"1. **Fried rice**","recipes_json":null,"created_at":"2025-05-31T08:30:00"}
		]`))
	}))
	defer srv.Close()

	store := newTestSupabaseStore(srv)
	records, err := store.selectRecent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].IngredientsDetected != "- eggs" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[0].RecipesJSON == nil || *records[0].RecipesJSON != `{"recipes":[]}` {
		t.Errorf("Unexpected recipes_json: %v", records[0].RecipesJSON)
	}
	if records[1].RecipesJSON != nil {
		t.Error("Expected null recipes_json to decode as nil")
	}
	// Second row has no zone suffix and must still parse.
	if records[1].CreatedAt.Year() != 2025 || records[1].CreatedAt.Month() != time.May {
		t.Errorf("Unexpected created_at: %v", records[1].CreatedAt)
	}
}

func TestSupabaseDeleteOlderThan_CountsFromContentRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Unexpected method: %s", r.Method)
		}
		if got := r.URL.Query().Get("created_at"); got != "lt.2025-05-02T00:00:00Z" {
			t.Errorf("Unexpected filter: %q", got)
		}
		if got := r.Header.Get("Prefer"); got != "return=minimal, count=exact" {
			t.Errorf("Unexpected Prefer header: %q", got)
		}
		w.Header().Set("Content-Range", "*/7")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := newTestSupabaseStore(srv)
	cutoff := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	deleted, err := store.deleteOlderThan(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if deleted != 7 {
		t.Errorf("Expected 7 deletions, got %d", deleted)
	}
}

func TestParseContentRangeTotal(t *testing.T) {
	tests := []struct {
		header string
		want   int64
	}{
		{"*/5", 5},
		{"0-4/5", 5},
		{"*/0", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseContentRangeTotal(tt.header); got != tt.want {
			t.Errorf("parseContentRangeTotal(%q) = %d, want %d", tt.header, got, tt.want)
		}
	}
}
