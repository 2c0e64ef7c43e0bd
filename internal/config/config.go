package config

import (
	"fmt"
	"log"

	"agri-chat/internal/chat"
	"agri-chat/internal/llm"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port int `env:"PORT" envDefault:"3000"`

	LLMProvider string `env:"LLM_PROVIDER" envDefault:"gemini"`
	APIKey      string `env:"API_KEY"`

	// LLMModel overrides the provider's default model. The gemini default,
	// gemini-1.5-flash, has been retired upstream, so deployments should set
	// LLM_MODEL to a current model such as gemini-2.5-flash.
	LLMModel   string `env:"LLM_MODEL"`
	LLMBaseURL string `env:"LLM_BASE_URL"`

	MaxOutputTokens  int `env:"MAX_OUTPUT_TOKENS" envDefault:"200"`
	MaxHistoryTurns  int `env:"MAX_HISTORY_TURNS" envDefault:"0"` // 0 keeps every turn
	SessionCacheSize int `env:"SESSION_CACHE_SIZE" envDefault:"1024"`

	StaticDir          string   `env:"STATIC_DIR" envDefault:"public"`
	PromptFile         string   `env:"PROMPT_FILE"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.MaxOutputTokens <= 0 {
		return fmt.Errorf("MAX_OUTPUT_TOKENS must be positive, got %d", cfg.MaxOutputTokens)
	}
	if cfg.SessionCacheSize <= 0 {
		return fmt.Errorf("SESSION_CACHE_SIZE must be positive, got %d", cfg.SessionCacheSize)
	}
	if cfg.MaxHistoryTurns < 0 {
		return fmt.Errorf("MAX_HISTORY_TURNS must not be negative, got %d", cfg.MaxHistoryTurns)
	}
	if cfg.LLMProvider != llm.ProviderOllama && cfg.APIKey == "" {
		log.Printf("Warning: API_KEY is not set, provider %s will fail to initialize", cfg.LLMProvider)
	}
	if cfg.LLMProvider == llm.ProviderGemini && cfg.LLMModel == "" {
		log.Printf("Warning: LLM_MODEL is not set, falling back to retired model %s", llm.DefaultGeminiModel)
	}
	return nil
}

func (cfg *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.APIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
	}
}

// SessionOptions builds the per-session settings, reading the prompt file if
// one is configured.
func (cfg *Config) SessionOptions() (chat.SessionOptions, error) {
	opts := chat.SessionOptions{
		Prompt:          chat.DefaultPromptTemplate(),
		MaxOutputTokens: cfg.MaxOutputTokens,
		MaxTurns:        cfg.MaxHistoryTurns,
	}

	if cfg.PromptFile != "" {
		tmpl, err := chat.LoadPromptTemplate(cfg.PromptFile)
		if err != nil {
			return opts, err
		}
		opts.Prompt = tmpl
	}

	return opts, nil
}
