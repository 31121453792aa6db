package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/roadmap-generator/internal/cache"
	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/types"
)

func chatContext(exchanges int) types.ChatContext {
	history := make([]types.ChatExchange, exchanges)
	for i := range history {
		history[i] = types.ChatExchange{User: fmt.Sprintf("q%d", i+1), Assistant: fmt.Sprintf("a%d", i+1)}
	}
	return types.ChatContext{
		Profile:        &types.Profile{Skills: []string{"Go"}, ExperienceLevel: types.LevelMid},
		RoadmapSummary: "8 weeks of React and Node.js",
		History:        history,
	}
}

func TestChat(t *testing.T) {
	gw := &stubGateway{reply: "```\nFocus on week 2 first.\n```"}
	a := NewAnalyzer(gw, catalog.MustDefault())

	reply, err := a.Chat(context.Background(), "  What next?  ", chatContext(7))
	require.NoError(t, err)
	assert.Equal(t, "Focus on week 2 first.", reply)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, llm.TierStandard, req.Tier)
	assert.Equal(t, chatMaxTokens, req.MaxTokens)
	assert.Equal(t, DefaultTimeout, req.Timeout)
	assert.Equal(t, "chat_assistant", req.Operation)
	assert.Contains(t, req.Prompt, "What next?")
	assert.Contains(t, req.Prompt, "8 weeks of React and Node.js")
	assert.NotContains(t, req.Prompt, "User: q2\n")
	assert.Contains(t, req.Prompt, "User: q3\nAssistant: a3")
	assert.Contains(t, req.Prompt, "User: q7\nAssistant: a7")
}

func TestChat_Cache(t *testing.T) {
	gw := &stubGateway{reply: "Practice daily."}
	store := cache.NewMemory[string]()
	a := NewAnalyzer(gw, catalog.MustDefault(), WithChatCache(store))

	first, err := a.Chat(context.Background(), "How fast?", chatContext(2))
	require.NoError(t, err)
	second, err := a.Chat(context.Background(), "How fast?", chatContext(2))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, gw.requests, 1)

	_, err = a.Chat(context.Background(), "How slow?", chatContext(2))
	require.NoError(t, err)
	assert.Len(t, gw.requests, 2)
}

func TestChat_HistoryWindowSharesKey(t *testing.T) {
	gw := &stubGateway{reply: "Practice daily."}
	a := NewAnalyzer(gw, catalog.MustDefault(), WithChatCache(cache.NewMemory[string]()))

	long := chatContext(5)
	longer := chatContext(5)
	longer.History = append([]types.ChatExchange{{User: "ancient", Assistant: "history"}}, longer.History...)

	_, err := a.Chat(context.Background(), "Ready?", long)
	require.NoError(t, err)
	_, err = a.Chat(context.Background(), "Ready?", longer)
	require.NoError(t, err)
	assert.Len(t, gw.requests, 1)
}

func TestChat_Errors(t *testing.T) {
	a := NewAnalyzer(&stubGateway{reply: "unused"}, catalog.MustDefault())
	_, err := a.Chat(context.Background(), " \n ", types.ChatContext{})
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)

	upstream := &llm.Error{Kind: llm.KindTimeout, Message: "deadline exceeded"}
	_, err = NewAnalyzer(&stubGateway{err: upstream}, catalog.MustDefault()).Chat(context.Background(), "hi", types.ChatContext{})
	assert.Same(t, upstream, err)

	_, err = NewAnalyzer(&stubGateway{reply: "```\n```"}, catalog.MustDefault()).Chat(context.Background(), "hi", types.ChatContext{})
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
