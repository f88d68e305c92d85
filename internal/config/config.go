package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	AnthropicAPIKey string
	OpenAIAPIKey    string

	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string

	DatabaseURL string

	RedisURL string

	UnsplashAccessKey string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	LLM     LLMConfig
	History HistoryConfig
}

type LLMConfig struct {
	Provider         string `yaml:"provider"`
	FallbackEnabled  bool   `yaml:"fallback_enabled"`
	FallbackProvider string `yaml:"fallback_provider"`
}

type HistoryConfig struct {
	Backend       string `yaml:"backend"`
	RetentionDays int    `yaml:"retention_days"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		AnthropicAPIKey:          os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		SupabaseURL:              os.Getenv("SUPABASE_URL"),
		SupabaseKey:              os.Getenv("SUPABASE_KEY"),
		SupabaseJWTSecret:        os.Getenv("SUPABASE_JWT_SECRET"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		UnsplashAccessKey:        os.Getenv("UNSPLASH_ACCESS_KEY"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}
	cfg.LLM.FallbackEnabled = true

	// Secrets file wins over environment for credentials; the environment
	// is the fallback when a key is absent from the file.
	if err := cfg.LoadFromSecrets(secretsPath()); err != nil {
		return nil, fmt.Errorf("failed to load secrets file: %w", err)
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "gusteau"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.SetLLMDefaults()
	cfg.SetHistoryDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func secretsPath() string {
	if path := os.Getenv("GUSTEAU_SECRETS_FILE"); path != "" {
		return path
	}
	return "secrets.yaml"
}

// LoadFromSecrets overlays credentials from a YAML secrets file. Keys use
// the same names as the corresponding environment variables. A present,
// non-empty value replaces whatever the environment supplied.
func (c *Config) LoadFromSecrets(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read secrets file: %w", err)
	}

	var secrets struct {
		AnthropicAPIKey   string `yaml:"ANTHROPIC_API_KEY"`
		OpenAIAPIKey      string `yaml:"OPENAI_API_KEY"`
		SupabaseURL       string `yaml:"SUPABASE_URL"`
		SupabaseKey       string `yaml:"SUPABASE_KEY"`
		SupabaseJWTSecret string `yaml:"SUPABASE_JWT_SECRET"`
		DatabaseURL       string `yaml:"DATABASE_URL"`
		RedisURL          string `yaml:"REDIS_URL"`
		UnsplashAccessKey string `yaml:"UNSPLASH_ACCESS_KEY"`
		SentryDSN         string `yaml:"SENTRY_DSN"`
	}

	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("failed to parse secrets file: %w", err)
	}

	if secrets.AnthropicAPIKey != "" {
		c.AnthropicAPIKey = secrets.AnthropicAPIKey
	}
	if secrets.OpenAIAPIKey != "" {
		c.OpenAIAPIKey = secrets.OpenAIAPIKey
	}
	if secrets.SupabaseURL != "" {
		c.SupabaseURL = secrets.SupabaseURL
	}
	if secrets.SupabaseKey != "" {
		c.SupabaseKey = secrets.SupabaseKey
	}
	if secrets.SupabaseJWTSecret != "" {
		c.SupabaseJWTSecret = secrets.SupabaseJWTSecret
	}
	if secrets.DatabaseURL != "" {
		c.DatabaseURL = secrets.DatabaseURL
	}
	if secrets.RedisURL != "" {
		c.RedisURL = secrets.RedisURL
	}
	if secrets.UnsplashAccessKey != "" {
		c.UnsplashAccessKey = secrets.UnsplashAccessKey
	}
	if secrets.SentryDSN != "" {
		c.SentryDSN = secrets.SentryDSN
	}

	return nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		LLM struct {
			Provider         string `yaml:"provider"`
			FallbackEnabled  *bool  `yaml:"fallback_enabled"`
			FallbackProvider string `yaml:"fallback_provider"`
		} `yaml:"llm"`
		History struct {
			Backend       string `yaml:"backend"`
			RetentionDays int    `yaml:"retention_days"`
		} `yaml:"history"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.LLM.Provider != "" {
		c.LLM.Provider = yamlConfig.LLM.Provider
	}
	if yamlConfig.LLM.FallbackEnabled != nil {
		c.LLM.FallbackEnabled = *yamlConfig.LLM.FallbackEnabled
	}
	if yamlConfig.LLM.FallbackProvider != "" {
		c.LLM.FallbackProvider = yamlConfig.LLM.FallbackProvider
	}
	if yamlConfig.History.Backend != "" {
		c.History.Backend = yamlConfig.History.Backend
	}
	if yamlConfig.History.RetentionDays > 0 {
		c.History.RetentionDays = yamlConfig.History.RetentionDays
	}

	return nil
}

func (c *Config) SetLLMDefaults() {
	if c.LLM.Provider == "" {
		if c.AnthropicAPIKey == "" && c.OpenAIAPIKey != "" {
			c.LLM.Provider = "openai"
		} else {
			c.LLM.Provider = "anthropic"
		}
	}
	if c.LLM.FallbackProvider == "" {
		c.LLM.FallbackProvider = "openai"
	}
}

func (c *Config) SetHistoryDefaults() {
	if c.History.Backend == "" {
		if c.DatabaseURL != "" && c.SupabaseURL == "" {
			c.History.Backend = "postgres"
		} else {
			c.History.Backend = "rest"
		}
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 90
	}
}

// PhotosEnabled reports whether stock photo lookup is configured.
func (c *Config) PhotosEnabled() bool {
	return c.UnsplashAccessKey != ""
}

// HistoryEnabled reports whether search history persistence is configured.
func (c *Config) HistoryEnabled() bool {
	if c.History.Backend == "postgres" {
		return c.DatabaseURL != ""
	}
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// AuthEnabled reports whether JWT verification is enforced on the API.
func (c *Config) AuthEnabled() bool {
	return c.SupabaseJWTSecret != ""
}

// WorkerEnabled reports whether background task processing is configured.
func (c *Config) WorkerEnabled() bool {
	return c.RedisURL != ""
}

func (c *Config) validate() error {
	if c.AnthropicAPIKey == "" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("no model credential found: set ANTHROPIC_API_KEY or OPENAI_API_KEY in the secrets file or environment")
	}
	return nil
}
