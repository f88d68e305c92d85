package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
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
	openAIDefaultBaseURL = "https://api.openai.com"
	openAIDefaultModel   = "gpt-4o"
)

// OpenAIProvider implements Provider against the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIProvider creates a new OpenAI vision/completion provider
func NewOpenAIProvider(apiKey string, opts ...Option) *OpenAIProvider {
	options := clientOptions{
		baseURL:    openAIDefaultBaseURL,
		model:      openAIDefaultModel,
		httpClient: httpclient.InstrumentedClient,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(options.baseURL, "/"),
		model:   options.model,
		client:  options.httpClient,
	}
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// IdentifyIngredients sends one image plus the localized extraction prompt
// and returns the raw text response.
func (p *OpenAIProvider) IdentifyIngredients(ctx context.Context, image ImageAsset, locale ai.Locale) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		NormalizeMediaType(image.MediaType),
		base64.StdEncoding.EncodeToString(image.Data),
	)
	req := openAIRequest{
		Model:     p.model,
		MaxTokens: identifyMaxTokens,
		Messages: []openAIMessage{{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "text", Text: ai.BuildIngredientPrompt(locale)},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}},
			},
		}},
	}
	return p.complete(ctx, "identify_ingredients", req)
}

// SuggestRecipes sends the recipe prompt in JSON mode and returns the raw
// text response.
func (p *OpenAIProvider) SuggestRecipes(ctx context.Context, recipeReq ai.RecipeRequest) (string, error) {
	req := openAIRequest{
		Model:          p.model,
		MaxTokens:      recipeMaxTokens,
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
		Messages: []openAIMessage{{
			Role:    "user",
			Content: []openAIContentPart{{Type: "text", Text: ai.BuildRecipePrompt(recipeReq)}},
		}},
	}
	return p.complete(ctx, "suggest_recipes", req)
}

func (p *OpenAIProvider) complete(ctx context.Context, operation string, req openAIRequest) (string, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{
			attribute.String("provider", "openai"),
			attribute.String("operation", operation),
		}
		metrics.AIGenerationDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}()

	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "OpenAI"), http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewProviderAPIError("failed to build OpenAI request", "PROVIDER_REQUEST_FAILED", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", classifyTransport("OpenAI", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport("OpenAI", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus("OpenAI", resp.StatusCode, string(respBody))
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.NewMalformedResponseError("OpenAI returned an unreadable response envelope", "PROVIDER_BAD_ENVELOPE", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.NewMalformedResponseError("OpenAI returned no response content", "PROVIDER_EMPTY_RESPONSE", nil)
	}
	return parsed.Choices[0].Message.Content, nil
}
