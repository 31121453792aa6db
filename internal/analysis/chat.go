package analysis

import (
	"context"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/cache"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/prompts"
	"github.com/jonathan/roadmap-generator/internal/types"
)

const chatMaxTokens = 1000

// WithChatCache caches Chat replies
func WithChatCache(s cache.Store[string]) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.chats = s
		}
	}
}

// Chat answers a learner's question as a mentor, using the profile, roadmap
// summary and recent history the caller supplies. Identical turns are served
// from the cache. Gateway errors are returned unchanged.
func (a *Analyzer) Chat(ctx context.Context, message string, chat types.ChatContext) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &InputError{Message: "message is empty"}
	}

	history := chat.History
	if len(history) > prompts.MaxChatHistory {
		history = history[len(history)-prompts.MaxChatHistory:]
	}
	input := prompts.ChatInput{
		Profile:        chat.Profile,
		RoadmapSummary: strings.TrimSpace(chat.RoadmapSummary),
		History:        history,
		Message:        message,
	}

	key, err := cache.Key("chat_assistant", input)
	if err != nil {
		return "", err
	}
	if cached, ok := a.chats.Get(ctx, key); ok {
		return cached, nil
	}

	prompt, err := prompts.BuildChatPrompt(input)
	if err != nil {
		return "", err
	}
	response, err := a.gateway.Complete(ctx, llm.Request{
		Prompt:    prompt,
		MaxTokens: chatMaxTokens,
		Timeout:   a.timeout,
		Tier:      llm.TierStandard,
		Operation: "chat_assistant",
	})
	if err != nil {
		return "", err
	}

	reply := llm.StripFences(response)
	if reply == "" {
		return "", &ParseError{Message: "model returned an empty reply"}
	}
	a.log.Info("chat answered", "history", len(history), "chars", len(reply))

	a.chats.Put(ctx, key, reply)
	return reply, nil
}
