// Package llm provides the gateway to the upstream language model: provider
// transports, a bounded retry policy, and a typed error taxonomy.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short extraction
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: resume analysis, recommendations
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long structured output: roadmap generation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenRouter is any OpenAI-compatible chat-completions endpoint, OpenRouter by default
	ProviderOpenRouter Provider = "openrouter"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultOpenRouterBaseURL is the OpenRouter API root
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// DefaultOpenRouterModel is the free Llama model the service was tuned against
const DefaultOpenRouterModel = "meta-llama/llama-3.3-70b-instruct:free"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	BaseURL     string
	Models      map[ModelTier]string
	Temperature float32
	// AppName and AppURL are sent as OpenRouter attribution headers when set
	AppName string
	AppURL  string
}

// DefaultConfig returns the default configuration (OpenRouter)
func DefaultConfig() *Config {
	return DefaultOpenRouterConfig()
}

// DefaultOpenRouterConfig uses one model for every tier
func DefaultOpenRouterConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		BaseURL:  DefaultOpenRouterBaseURL,
		Models: map[ModelTier]string{
			TierStandard: DefaultOpenRouterModel,
		},
		Temperature: 0.7,
		AppName:     "roadmap-generator",
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.4,
	}
}

// ConfigFor returns the defaults for a provider name, falling back to OpenRouter.
func ConfigFor(provider Provider) *Config {
	if provider == ProviderGemini {
		return DefaultGeminiConfig()
	}
	return DefaultOpenRouterConfig()
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithSingleModel pins every tier to one model, as done when a model is given on the command line.
func (c *Config) WithSingleModel(model string) *Config {
	newConfig := *c
	newConfig.Models = map[ModelTier]string{
		TierLite:     model,
		TierStandard: model,
		TierAdvanced: model,
	}
	return &newConfig
}
