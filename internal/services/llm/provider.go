package llm

import (
	"context"
	"strings"

	"github.com/fridgechef/gusteau/internal/services/ai"
)

// ProviderType represents the type of AI provider
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
)

// ImageAsset is one uploaded photo handed to a vision call.
type ImageAsset struct {
	Data      []byte
	MediaType string
}

// Provider defines the interface for multimodal model vendors. Both
// operations return the model's raw text response; parsing happens in
// the parser package, never here.
type Provider interface {
	IdentifyIngredients(ctx context.Context, image ImageAsset, locale ai.Locale) (string, error)
	SuggestRecipes(ctx context.Context, req ai.RecipeRequest) (string, error)
}

// NormalizeMediaType maps an uploaded content type onto the vendors'
// accepted set. Anything unrecognized is declared as JPEG.
func NormalizeMediaType(contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	switch mediaType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return mediaType
	case "image/jpg":
		return "image/jpeg"
	default:
		return "image/jpeg"
	}
}
