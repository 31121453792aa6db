package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiTransport implements Transport for Google Gemini
type GeminiTransport struct {
	client *genai.Client
	config *Config
}

// NewGeminiTransport creates a new Gemini transport
func NewGeminiTransport(ctx context.Context, config *Config, apiKey string) (*GeminiTransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTransport{
		client: client,
		config: config,
	}, nil
}

// Send generates content for a single user prompt
func (t *GeminiTransport) Send(ctx context.Context, call Call) (string, error) {
	modelName := t.config.GetModel(call.Tier)
	if modelName == "" {
		return "", &Error{Kind: KindGeneric, Message: fmt.Sprintf("no model configured for tier %s", call.Tier)}
	}

	model := t.client.GenerativeModel(modelName)
	temperature := call.Temperature
	if temperature == 0 {
		temperature = t.config.Temperature
	}
	model.SetTemperature(temperature)
	model.SetCandidateCount(1)
	if call.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(call.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(call.Prompt))
	if err != nil {
		status := 0
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Code
		}
		return "", Classify(err, status, "")
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &Error{Kind: KindGeneric, Message: "unusable Gemini response", Cause: err}
	}
	return text, nil
}

// Model returns the model name for a tier
func (t *GeminiTransport) Model(tier ModelTier) string {
	return t.config.GetModel(tier)
}

// Close releases resources held by the client
func (t *GeminiTransport) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
