package validation

import (
	"bytes"
	"testing"

	"github.com/fridgechef/gusteau/internal/services/ai"
	"github.com/fridgechef/gusteau/internal/services/llm"
)

func imageOf(size int) llm.ImageAsset {
	return llm.ImageAsset{Data: bytes.Repeat([]byte{0xAB}, size), MediaType: "image/jpeg"}
}

func TestValidateImages(t *testing.T) {
	tests := []struct {
		name     string
		images   []llm.ImageAsset
		wantCode string
	}{
		{"single image", []llm.ImageAsset{imageOf(16)}, ""},
		{"five images", []llm.ImageAsset{imageOf(1), imageOf(1), imageOf(1), imageOf(1), imageOf(1)}, ""},
		{"no images", nil, "NO_IMAGES"},
		{"six images", []llm.ImageAsset{imageOf(1), imageOf(1), imageOf(1), imageOf(1), imageOf(1), imageOf(1)}, "TOO_MANY_IMAGES"},
		{"empty image", []llm.ImageAsset{imageOf(16), {MediaType: "image/png"}}, "EMPTY_IMAGE"},
		{"oversized image", []llm.ImageAsset{imageOf(MaxImageBytes + 1)}, "IMAGE_TOO_LARGE"},
		{"exactly at cap", []llm.ImageAsset{imageOf(MaxImageBytes)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImages(tt.images)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Expected valid input, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error code %s, got nil", tt.wantCode)
			}
			if err.ErrorCode != tt.wantCode {
				t.Errorf("Expected error code %s, got %s", tt.wantCode, err.ErrorCode)
			}
			if err.StatusCode != 400 {
				t.Errorf("Expected status 400, got %d", err.StatusCode)
			}
		})
	}
}

func TestValidateRecipeRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      ai.RecipeRequest
		wantCode string
	}{
		{
			"minimal valid request",
			ai.RecipeRequest{Ingredients: []string{"eggs"}},
			"",
		},
		{
			"full valid request",
			ai.RecipeRequest{
				Ingredients: []string{"eggs", "spinach"},
				DietaryTags: []string{"Vegetarian", "Gluten-Free"},
				Cuisine:     "Italian",
				Locale:      ai.LocaleEnglish,
			},
			"",
		},
		{
			"tags and cuisine match case-insensitively",
			ai.RecipeRequest{Ingredients: []string{"eggs"}, DietaryTags: []string{"vegan"}, Cuisine: "italian"},
			"",
		},
		{
			"empty cuisine means no preference",
			ai.RecipeRequest{Ingredients: []string{"eggs"}, Cuisine: ""},
			"",
		},
		{
			"english any sentinel",
			ai.RecipeRequest{Ingredients: []string{"eggs"}, Cuisine: "Any"},
			"",
		},
		{
			"french any sentinel under english locale",
			ai.RecipeRequest{Ingredients: []string{"eggs"}, Cuisine: "Toutes", Locale: ai.LocaleEnglish},
			"",
		},
		{
			"polish any sentinel",
			ai.RecipeRequest{Ingredients: []string{"jajka"}, Cuisine: "Dowolna", Locale: ai.LocalePolish},
			"",
		},
		{
			"no ingredients",
			ai.RecipeRequest{},
			"NO_INGREDIENTS",
		},
		{
			"only blank ingredients",
			ai.RecipeRequest{Ingredients: []string{"  ", "\t"}},
			"NO_INGREDIENTS",
		},
		{
			"unknown dietary tag",
			ai.RecipeRequest{Ingredients: []string{"eggs"}, DietaryTags: []string{"Paleo"}},
			"UNSUPPORTED_DIETARY_TAG",
		},
		{
			"unknown cuisine",
			ai.RecipeRequest{Ingredients: []string{"eggs"}, Cuisine: "Martian"},
			"UNSUPPORTED_CUISINE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecipeRequest(tt.req)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Expected valid request, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error code %s, got nil", tt.wantCode)
			}
			if err.ErrorCode != tt.wantCode {
				t.Errorf("Expected error code %s, got %s", tt.wantCode, err.ErrorCode)
			}
		})
	}
}
