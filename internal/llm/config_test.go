package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenRouter, config.Provider)
	assert.Equal(t, DefaultOpenRouterBaseURL, config.BaseURL)
	// a single configured model serves every tier through the fallback chain
	assert.Equal(t, DefaultOpenRouterModel, config.GetModel(TierLite))
	assert.Equal(t, DefaultOpenRouterModel, config.GetModel(TierAdvanced))
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, ProviderGemini, ConfigFor(ProviderGemini).Provider)
	assert.Equal(t, ProviderOpenRouter, ConfigFor("unknown").Provider)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	original := DefaultGeminiConfig()
	updated := original.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "custom-model", updated.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-pro", original.GetModel(TierAdvanced))
	assert.Equal(t, original.Temperature, updated.Temperature)
}

func TestWithSingleModel(t *testing.T) {
	updated := DefaultGeminiConfig().WithSingleModel("only-model")

	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		assert.Equal(t, "only-model", updated.GetModel(tier))
	}
}
