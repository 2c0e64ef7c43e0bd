package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agri-chat/internal/chat"
	"agri-chat/internal/metrics"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NamedProvider is a chat.Provider that can report which backend and model
// it uses.
type NamedProvider interface {
	chat.Provider
	Name() string
}

func NewProvider(ctx context.Context, cfg Config) (NamedProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		return NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOllama:
		return NewOllama(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("provider %s not supported", cfg.Provider)
	}
}

type instrumented struct {
	provider NamedProvider
	metrics  *metrics.Metrics
}

// WithMetrics wraps a provider so every generation call is counted and timed.
func WithMetrics(provider NamedProvider, m *metrics.Metrics) NamedProvider {
	return &instrumented{provider: provider, metrics: m}
}

func (p *instrumented) Generate(ctx context.Context, req chat.GenerateRequest) (string, error) {
	start := time.Now()
	reply, err := p.provider.Generate(ctx, req)
	p.metrics.RecordProviderRequest(p.provider.Name(), time.Since(start), err)
	return reply, err
}

func (p *instrumented) Name() string {
	return p.provider.Name()
}
