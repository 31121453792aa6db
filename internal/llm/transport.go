package llm

import (
	"context"
	"fmt"
)

// Call is a single request to a provider
type Call struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
	Tier        ModelTier
}

// Transport performs exactly one network call to a provider with one user-role message.
// Failures should be returned as *Error; anything else is classified by the gateway.
type Transport interface {
	Send(ctx context.Context, call Call) (string, error)
	// Model returns the provider model used for a tier
	Model(tier ModelTier) string
	// Close releases any resources held by the transport
	Close() error
}

// NewTransport creates the transport for the configured provider
func NewTransport(ctx context.Context, config *Config, apiKey string) (Transport, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiTransport(ctx, config, apiKey)
	case ProviderOpenRouter, "":
		return NewOpenRouterTransport(config, apiKey, nil)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
