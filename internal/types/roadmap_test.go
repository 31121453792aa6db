package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRoadmap = `{
	"total_duration_weeks": 5,
	"estimated_completion_date": "2026-03-01",
	"weekly_plans": [
		{"week": 1, "phase": 1, "focus": "JSX", "daily_plans": [
			{"day": 1, "topic": "Components", "tasks": ["read"], "hours": 1.5,
			 "resource": {"title": "Quick Start", "type": "Documentation", "platform": "React.dev",
			              "url": "https://react.dev/learn", "duration": "2 hours", "what_to_learn": "components"},
			 "practice": "build a button", "outcome": "knows JSX"}
		]},
		{"week": 5, "phase": 2, "focus": "Review", "main_topics": ["hooks"], "total_hours": 10,
		 "key_resource": {"title": "Quick Start", "url": "https://react.dev/learn", "type": "Documentation"}}
	],
	"career_insights": "Frontend roles",
	"skill_gap_analysis": {"strengths": ["JS"], "gaps": ["hooks"], "challenges": [], "strategies": []}
}`

func decodeSample(t *testing.T) Document {
	t.Helper()
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleRoadmap), &doc))
	return doc
}

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := decodeSample(t)
	clone := doc.Clone()

	week := clone.Weeks()[0]
	day := week["daily_plans"].([]any)[0].(map[string]any)
	day["resource"].(map[string]any)["url"] = "https://changed.example"

	original := doc.Weeks()[0]["daily_plans"].([]any)[0].(map[string]any)
	assert.Equal(t, "https://react.dev/learn", original["resource"].(map[string]any)["url"])
}

func TestDocument_CloneNil(t *testing.T) {
	var doc Document
	assert.Nil(t, doc.Clone())
}

func TestDocument_WeeksSkipsNonObjects(t *testing.T) {
	doc := Document{"weekly_plans": []any{map[string]any{"week": 1.0}, "junk", nil}}
	assert.Len(t, doc.Weeks(), 1)

	assert.Nil(t, Document{"weekly_plans": "nope"}.Weeks())
}

func TestDocument_Roadmap(t *testing.T) {
	r, err := decodeSample(t).Roadmap()
	require.NoError(t, err)

	assert.Equal(t, 5, r.TotalDurationWeeks)
	require.Len(t, r.WeeklyPlans, 2)
	assert.True(t, r.WeeklyPlans[0].Detailed())
	assert.False(t, r.WeeklyPlans[1].Detailed())
	assert.Equal(t, "https://react.dev/learn", r.WeeklyPlans[0].DailyPlans[0].Resource.URL)
	assert.Equal(t, "components", r.WeeklyPlans[0].DailyPlans[0].Resource.WhatToLearn)
	require.NotNil(t, r.WeeklyPlans[1].KeyResource)
	assert.Equal(t, "Documentation", r.WeeklyPlans[1].KeyResource.Type)
	assert.Equal(t, []string{"hooks"}, r.SkillGapAnalysis.Gaps)
}

func TestResource_DayAndKeyResource(t *testing.T) {
	r := Resource{
		Title:    "MDN HTML Tutorial",
		Type:     ResourceDocumentation,
		Platform: "MDN Web Docs",
		URL:      "https://developer.mozilla.org/en-US/docs/Learn/HTML",
		Topics:   []string{"HTML basics"},
		Duration: "4-6 hours",
	}

	day := r.DayResource("semantic tags")
	assert.Equal(t, "semantic tags", day["what_to_learn"])
	assert.Equal(t, r.URL, day["url"])
	assert.Equal(t, []any{"HTML basics"}, day["topics"])

	key := r.KeyResource()
	assert.Len(t, key, 3)
	assert.Equal(t, r.Title, key["title"])
}
