package llm

import "net/http"

// clientOptions are the knobs shared by both vendor adapters. Tests use
// them to point an adapter at a local server with a fake model.
type clientOptions struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a vendor adapter.
type Option func(*clientOptions)

// WithBaseURL overrides the vendor API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithModel overrides the model identifier.
func WithModel(model string) Option {
	return func(o *clientOptions) { o.model = model }
}

// WithHTTPClient overrides the HTTP client used for vendor calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = client }
}
