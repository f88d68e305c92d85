// Package api exposes the fridge-to-recipe flows over HTTP.
package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fridgechef/gusteau/internal/config"
	"github.com/fridgechef/gusteau/internal/enrich"
	"github.com/fridgechef/gusteau/internal/errors"
	"github.com/fridgechef/gusteau/internal/parser"
	"github.com/fridgechef/gusteau/internal/pipeline"
	"github.com/fridgechef/gusteau/internal/services/ai"
	"github.com/fridgechef/gusteau/internal/services/history"
	"github.com/fridgechef/gusteau/internal/services/llm"
	"github.com/fridgechef/gusteau/internal/services/photos"
	"github.com/fridgechef/gusteau/internal/validation"
)

const (
	// multipartMemoryLimit keeps large photo uploads on disk instead of RAM.
	multipartMemoryLimit = 32 << 20
	// maxHistoryLimit caps one history page.
	maxHistoryLimit = 50
)

type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	photos   *photos.Client
	history  *history.Gateway
}

func NewServer(cfg *config.Config, p *pipeline.Pipeline, photosClient *photos.Client, historyGateway *history.Gateway) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: p,
		photos:   photosClient,
		history:  historyGateway,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps any error onto the response taxonomy. Errors that are
// not an AppError become a 500 without leaking their message.
func writeError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError("something went wrong", err)
	}
	writeJSON(w, appErr.StatusCode, map[string]*errors.AppError{"error": appErr})
}

type IngredientItem struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type DetectIngredientsResponse struct {
	Ingredients []IngredientItem `json:"ingredients"`
	Locale      string           `json:"locale"`
}

// HandleDetectIngredients accepts a multipart form with up to five photos
// under "images" plus an optional "locale" field, and returns the merged
// deduplicated ingredient list.
func (s *Server) HandleDetectIngredients(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(validation.MaxImages)*validation.MaxImageBytes+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeError(w, errors.NewValidationError(
			"expected a multipart form with an images field",
			"BAD_MULTIPART_FORM",
			"Send photos as multipart form files under the images field.",
		))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var images []llm.ImageAsset
	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			writeError(w, errors.NewValidationError(
				"could not open uploaded photo "+header.Filename,
				"UNREADABLE_IMAGE",
				"Re-upload the photo.",
			))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, errors.NewValidationError(
				"could not read uploaded photo "+header.Filename,
				"UNREADABLE_IMAGE",
				"Re-upload the photo.",
			))
			return
		}
		images = append(images, llm.ImageAsset{
			Data:      data,
			MediaType: llm.NormalizeMediaType(header.Header.Get("Content-Type")),
		})
	}

	if appErr := validation.ValidateImages(images); appErr != nil {
		writeError(w, appErr)
		return
	}

	locale := ai.ParseLocale(r.FormValue("locale"))

	ingredients, err := s.pipeline.DetectIngredients(r.Context(), images, locale)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]IngredientItem, len(ingredients))
	for i, name := range ingredients {
		items[i] = IngredientItem{Name: name, Emoji: enrich.IngredientEmoji(name)}
	}

	writeJSON(w, http.StatusOK, DetectIngredientsResponse{
		Ingredients: items,
		Locale:      string(locale),
	})
}

type SuggestRecipesRequest struct {
	Ingredients []string `json:"ingredients"`
	DietaryTags []string `json:"dietary_tags,omitempty"`
	Cuisine     string   `json:"cuisine,omitempty"`
	Locale      string   `json:"locale,omitempty"`
}

type DegradedPayload struct {
	RawText    string   `json:"raw_text"`
	ParseError string   `json:"parse_error"`
	Titles     []string `json:"titles"`
}

type SuggestRecipesResponse struct {
	SearchID string           `json:"search_id"`
	Saved    bool             `json:"saved"`
	Recipes  []parser.Recipe  `json:"recipes,omitempty"`
	Degraded *DegradedPayload `json:"degraded,omitempty"`
}

// HandleSuggestRecipes turns an edited ingredient list plus preferences
// into recipe suggestions. A model response that fails the JSON contract
// is returned as a degraded payload with best-effort titles, not an error.
func (s *Server) HandleSuggestRecipes(w http.ResponseWriter, r *http.Request) {
	var req SuggestRecipesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError(
			"invalid request body",
			"BAD_REQUEST_BODY",
			"Send a JSON object with an ingredients array.",
		))
		return
	}

	recipeReq := ai.RecipeRequest{
		Ingredients: req.Ingredients,
		DietaryTags: req.DietaryTags,
		Cuisine:     req.Cuisine,
		Locale:      ai.ParseLocale(req.Locale),
	}
	if appErr := validation.ValidateRecipeRequest(recipeReq); appErr != nil {
		writeError(w, appErr)
		return
	}

	result, err := s.pipeline.SuggestRecipes(r.Context(), recipeReq)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := SuggestRecipesResponse{
		SearchID: result.SearchID,
		Saved:    result.Saved,
	}
	if result.Result.IsDegraded() {
		resp.Degraded = &DegradedPayload{
			RawText:    result.Result.Degraded.RawText,
			ParseError: result.Result.Degraded.ParseError,
			Titles:     parser.ExtractRecipeTitles(result.Result.Degraded.RawText),
		}
	} else {
		resp.Recipes = result.Result.Set.Recipes
	}

	writeJSON(w, http.StatusOK, resp)
}

type RecipeTitlesResponse struct {
	Titles []string `json:"titles"`
}

// HandleRecipeTitles extracts display titles from free-form recipe text.
// Kept for clients that render the degraded path themselves.
func (s *Server) HandleRecipeTitles(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeError(w, errors.NewValidationError(
			"text query parameter is required",
			"MISSING_TEXT",
			"Pass the recipe text in the text query parameter.",
		))
		return
	}

	titles := parser.ExtractRecipeTitles(text)
	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, RecipeTitlesResponse{Titles: titles})
}

type PhotoResponse struct {
	Photo *photos.Photo `json:"photo"`
}

// HandlePhotoLookup returns a stock photo for a recipe name. Lookups are
// best effort: a miss, a provider failure or a missing credential all
// answer 200 with a null photo.
func (s *Server) HandlePhotoLookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, errors.NewValidationError(
			"query parameter is required",
			"MISSING_QUERY",
			"Pass the recipe name in the query parameter.",
		))
		return
	}

	writeJSON(w, http.StatusOK, PhotoResponse{Photo: s.photos.Lookup(r.Context(), query)})
}

type HistoryResponse struct {
	Searches []history.Record `json:"searches"`
	Notice   string           `json:"notice,omitempty"`
}

// HandleHistory returns recent searches, most recent first. A failing
// history backend yields an empty page plus a notice, never an error.
func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.history.LoadRecentSearches(r.Context(), limit)
	resp := HistoryResponse{Searches: records}
	if err != nil {
		resp.Notice = "Search history is temporarily unavailable."
	}
	writeJSON(w, http.StatusOK, resp)
}

type ExportRecipesRequest struct {
	Recipes []parser.Recipe `json:"recipes,omitempty"`
	Text    string          `json:"text,omitempty"`
}

// HandleExportRecipes renders suggestions as the plain-text download
// artifact. Structured recipes are formatted; degraded-mode clients can
// pass the raw text straight through. Nothing is persisted.
func (s *Server) HandleExportRecipes(w http.ResponseWriter, r *http.Request) {
	var req ExportRecipesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError(
			"invalid request body",
			"BAD_REQUEST_BODY",
			"Send a JSON object with recipes or text.",
		))
		return
	}

	text := req.Text
	if len(req.Recipes) > 0 {
		text = enrich.FormatRecipeText(&parser.RecipeSet{Recipes: req.Recipes})
	}
	if text == "" {
		writeError(w, errors.NewValidationError(
			"nothing to export",
			"EMPTY_EXPORT",
			"Provide recipes or text to export.",
		))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=my_recipes.txt`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
