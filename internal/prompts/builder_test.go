package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/roadmap-generator/internal/types"
)

func sampleInput() RoadmapInput {
	return RoadmapInput{
		Profile: types.Profile{
			Skills:            []string{"Python", "SQL"},
			YearsOfExperience: 3,
			CurrentRole:       "Data Analyst",
			ExperienceLevel:   types.LevelMid,
		},
		Technologies:  []string{"React", "Node.js"},
		HoursPerWeek:  10,
		LearningStyle: "Hands-on",
		Deadline:      "3 months",
		Resources: []types.Resource{
			{
				Title:    "React Official Tutorial",
				Type:     types.ResourceInteractiveCourse,
				Platform: "React.dev",
				URL:      "https://react.dev/learn",
				Topics:   []string{"components", "hooks"},
				Duration: "8 hours",
			},
			{
				Title:    "Node.js Docs",
				Type:     types.ResourceDocumentation,
				Platform: "Node.js",
				URL:      "https://nodejs.org/en/docs",
				Duration: "Reference",
			},
		},
		DetailedWeeks:  4,
		TotalWeeks:     9,
		CompletionDate: "2026-12-20",
	}
}

func TestBuildRoadmapPrompt_ContainsInputs(t *testing.T) {
	prompt, err := BuildRoadmapPrompt(sampleInput())
	require.NoError(t, err)

	for _, want := range []string{
		"Data Analyst",
		"Python, SQL",
		"3 years (Mid-Level)",
		"React, Node.js",
		"10 hours per week",
		"Hands-on",
		"3 months",
		"9 weeks, finishing around 2026-12-20",
		"1. Title: React Official Tutorial",
		"URL: https://react.dev/learn",
		"Topics: components, hooks",
		"2. Title: Node.js Docs",
		"Weeks 1-4 are detailed weeks",
		"Weeks 5-9 are high-level weeks",
		`"total_duration_weeks": 9`,
		`"week": 5`,
		`"hours": 1.4`,
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "{{.")
	assert.NotContains(t, prompt, "STRICT REQUIREMENTS")
}

func TestBuildRoadmapPrompt_Deterministic(t *testing.T) {
	first, err := BuildRoadmapPrompt(sampleInput())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := BuildRoadmapPrompt(sampleInput())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildRoadmapPrompt_Strict(t *testing.T) {
	in := sampleInput()
	normal, err := BuildRoadmapPrompt(in)
	require.NoError(t, err)

	in.Strict = true
	strict, err := BuildRoadmapPrompt(in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(strict, strings.TrimRight(normal, "\n")))
	assert.Contains(t, strict, "STRICT REQUIREMENTS")
	assert.Contains(t, strict, "character for character")
}

func TestBuildRoadmapPrompt_AllDetailed(t *testing.T) {
	in := sampleInput()
	in.TotalWeeks = 3
	in.DetailedWeeks = 4

	prompt, err := BuildRoadmapPrompt(in)
	require.NoError(t, err)
	assert.Contains(t, prompt, "All 3 weeks are detailed weeks")
}

func TestBuildRoadmapPrompt_Defaults(t *testing.T) {
	in := sampleInput()
	in.Profile = types.Profile{}
	in.LearningStyle = ""
	in.Deadline = ""

	prompt, err := BuildRoadmapPrompt(in)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Current role: Not specified")
	assert.Contains(t, prompt, "Current skills: None listed")
	assert.Contains(t, prompt, "(Unknown)")
	assert.Contains(t, prompt, "Learning style: Balanced")
	assert.Contains(t, prompt, "Deadline: Flexible")
}

func TestFormatResources_Empty(t *testing.T) {
	assert.Equal(t, "(none available)", FormatResources(nil))
}

func TestBuildRecommendPrompt(t *testing.T) {
	prompt, err := BuildRecommendPrompt(RecommendInput{
		Profile: types.Profile{
			Skills:            []string{"Go", "Kubernetes"},
			YearsOfExperience: 6,
			ExperienceLevel:   types.LevelSenior,
			Domains:           []string{"Cloud"},
		},
		KnownTechnologies: []string{"Docker", "Go"},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Go, Kubernetes")
	assert.Contains(t, prompt, "Senior")
	assert.Contains(t, prompt, "Cloud")
	assert.Contains(t, prompt, "Docker, Go")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildChatPrompt(t *testing.T) {
	history := make([]types.ChatExchange, 7)
	for i := range history {
		history[i] = types.ChatExchange{
			User:      "question " + string(rune('A'+i)),
			Assistant: "answer " + string(rune('A'+i)),
		}
	}

	prompt, err := BuildChatPrompt(ChatInput{
		Profile:        &types.Profile{Skills: []string{"Go"}, ExperienceLevel: types.LevelSenior},
		RoadmapSummary: "12 weeks of Kubernetes",
		History:        history,
		Message:        "  How do I stay motivated?  ",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, `"experience_level": "Senior"`)
	assert.Contains(t, prompt, "12 weeks of Kubernetes")
	assert.Contains(t, prompt, "USER QUESTION:\nHow do I stay motivated?\n")
	assert.NotContains(t, prompt, "question A")
	assert.NotContains(t, prompt, "question B")
	assert.Contains(t, prompt, "User: question C\nAssistant: answer C")
	assert.Contains(t, prompt, "User: question G\nAssistant: answer G")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildChatPrompt_Defaults(t *testing.T) {
	prompt, err := BuildChatPrompt(ChatInput{Message: "Where do I start?"})
	require.NoError(t, err)

	assert.Contains(t, prompt, "USER PROFILE:\nNot available")
	assert.Contains(t, prompt, "THEIR ROADMAP:\nNot available")
	assert.Contains(t, prompt, "No previous conversation")
}

func TestBuildChatPrompt_MessageIsNotExpanded(t *testing.T) {
	prompt, err := BuildChatPrompt(ChatInput{Message: "what is {{.Profile}}?"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "what is {{.Profile}}?")
}
