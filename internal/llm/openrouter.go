package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenRouterTransport talks to an OpenAI-compatible chat-completions endpoint
type OpenRouterTransport struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	N           int           `json:"n"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// NewOpenRouterTransport creates a chat-completions transport. A nil httpClient
// uses a client without its own timeout; deadlines come from the call context.
func NewOpenRouterTransport(config *Config, apiKey string, httpClient *http.Client) (*OpenRouterTransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultOpenRouterConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenRouterTransport{httpClient: httpClient, config: config, apiKey: apiKey}, nil
}

// Send posts one user message and returns the first choice's content.
func (t *OpenRouterTransport) Send(ctx context.Context, call Call) (string, error) {
	model := t.config.GetModel(call.Tier)
	if model == "" {
		return "", &Error{Kind: KindGeneric, Message: fmt.Sprintf("no model configured for tier %s", call.Tier)}
	}

	temperature := call.Temperature
	if temperature == 0 {
		temperature = t.config.Temperature
	}
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: call.Prompt}},
		N:           1,
		MaxTokens:   call.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &Error{Kind: KindGeneric, Message: "failed to encode request", Cause: err}
	}

	baseURL := strings.TrimRight(t.config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindGeneric, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if t.config.AppURL != "" {
		req.Header.Set("HTTP-Referer", t.config.AppURL)
	}
	if t.config.AppName != "" {
		req.Header.Set("X-Title", t.config.AppName)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", Classify(err, 0, "")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Classify(err, resp.StatusCode, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", Classify(nil, resp.StatusCode, providerMessage(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &Error{Kind: KindGeneric, StatusCode: resp.StatusCode, Message: "failed to decode completion", Cause: err}
	}
	// OpenRouter reports some upstream failures inside a 200 body
	if parsed.Error != nil {
		return "", Classify(nil, codeOf(parsed.Error.Code), parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Kind: KindGeneric, StatusCode: resp.StatusCode, Message: "no choices in response"}
	}
	return parsed.Choices[0].Message.Content, nil
}

// Model returns the model name for a tier
func (t *OpenRouterTransport) Model(tier ModelTier) string {
	return t.config.GetModel(tier)
}

// Close is a no-op; the HTTP client owns no resources that need releasing.
func (t *OpenRouterTransport) Close() error {
	return nil
}

func providerMessage(raw []byte) string {
	var parsed chatResponse
	if json.Unmarshal(raw, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(raw)
}

func codeOf(code any) int {
	switch c := code.(type) {
	case float64:
		return int(c)
	case string:
		var n int
		if _, err := fmt.Sscanf(c, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}
