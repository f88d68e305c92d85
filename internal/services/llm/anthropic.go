package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fridgechef/gusteau/internal/errors"
	"github.com/fridgechef/gusteau/internal/httpclient"
	"github.com/fridgechef/gusteau/internal/metrics"
	"github.com/fridgechef/gusteau/internal/services/ai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicDefaultModel   = "claude-sonnet-4-20250514"
	anthropicVersion        = "2023-06-01"

	identifyMaxTokens = 1024
	recipeMaxTokens   = 2048
)

// AnthropicProvider implements Provider against the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewAnthropicProvider creates a new Anthropic vision/completion provider
func NewAnthropicProvider(apiKey string, opts ...Option) *AnthropicProvider {
	options := clientOptions{
		baseURL:    anthropicDefaultBaseURL,
		model:      anthropicDefaultModel,
		httpClient: httpclient.InstrumentedClient,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &AnthropicProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(options.baseURL, "/"),
		model:   options.model,
		client:  options.httpClient,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// IdentifyIngredients sends one image plus the localized extraction prompt
// and returns the raw text response.
func (p *AnthropicProvider) IdentifyIngredients(ctx context.Context, image ImageAsset, locale ai.Locale) (string, error) {
	req := anthropicRequest{
		Model:     p.model,
		MaxTokens: identifyMaxTokens,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicContent{
				{
					Type: "image",
					Source: &anthropicSource{
						Type:      "base64",
						MediaType: NormalizeMediaType(image.MediaType),
						Data:      base64.StdEncoding.EncodeToString(image.Data),
					},
				},
				{Type: "text", Text: ai.BuildIngredientPrompt(locale)},
			},
		}},
	}
	return p.complete(ctx, "identify_ingredients", req)
}

// SuggestRecipes sends the recipe prompt and returns the raw text response.
func (p *AnthropicProvider) SuggestRecipes(ctx context.Context, recipeReq ai.RecipeRequest) (string, error) {
	req := anthropicRequest{
		Model:     p.model,
		MaxTokens: recipeMaxTokens,
		Messages: []anthropicMessage{{
			Role:    "user",
			Content: []anthropicContent{{Type: "text", Text: ai.BuildRecipePrompt(recipeReq)}},
		}},
	}
	return p.complete(ctx, "suggest_recipes", req)
}

func (p *AnthropicProvider) complete(ctx context.Context, operation string, req anthropicRequest) (string, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{
			attribute.String("provider", "anthropic"),
			attribute.String("operation", operation),
		}
		metrics.AIGenerationDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}()

	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Anthropic"), http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewProviderAPIError("failed to build Anthropic request", "PROVIDER_REQUEST_FAILED", err)
	}
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", classifyTransport("Anthropic", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport("Anthropic", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus("Anthropic", resp.StatusCode, string(respBody))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.NewMalformedResponseError("Anthropic returned an unreadable response envelope", "PROVIDER_BAD_ENVELOPE", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if text == "" {
		return "", errors.NewMalformedResponseError("Anthropic returned no text content", "PROVIDER_EMPTY_RESPONSE", nil)
	}
	return text, nil
}
