package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/roadmap-generator/internal/roadmaptest"
)

func TestValidateContent_Clean(t *testing.T) {
	doc := roadmaptest.Document(verifiedResources(t), roadmaptest.Options{TotalWeeks: 6, HoursPerWeek: 14})
	assert.Empty(t, ValidateContent(doc, 14))
}

func TestValidateContent_Warnings(t *testing.T) {
	resources := verifiedResources(t)
	doc := roadmaptest.Document(resources, roadmaptest.Options{TotalWeeks: 5, HoursPerWeek: 7})

	delete(doc, "career_insights")
	doc["skill_gap_analysis"] = map[string]any{"strengths": "many"}
	roadmaptest.Day(doc, 0, 1)["day"] = float64(1)
	roadmaptest.Day(doc, 1, 3)["hours"] = float64(0)
	roadmaptest.Day(doc, 2, 0)["hours"] = float64(20)
	roadmaptest.Week(doc, 3)["main_topics"] = []any{"extra"}

	warnings := ValidateContent(doc, 7)
	joined := strings.Join(warnings, "\n")

	assert.Contains(t, joined, "career_insights")
	assert.Contains(t, joined, "skill_gap_analysis")
	assert.Contains(t, warnings, "Week 1: missing day(s) 2")
	assert.Contains(t, warnings, "Week 1: day 1 appears 2 times")
	assert.Contains(t, warnings, "Week 2, Day 4: hours must be a positive number")
	assert.Contains(t, joined, "Week 3: total hours 26.0 outside 5.6-8.4")
	assert.Contains(t, warnings, "Week 4: has both daily_plans and high-level fields")
}

func TestValidateContent_IgnoresBudgetWithoutHours(t *testing.T) {
	doc := roadmaptest.Document(verifiedResources(t), roadmaptest.Options{TotalWeeks: 4, HoursPerWeek: 7})
	assert.Empty(t, ValidateContent(doc, 0))
	assert.NotEmpty(t, ValidateContent(doc, 40))
}

func TestValidateContent_HighLevelTotalHours(t *testing.T) {
	doc := roadmaptest.Document(verifiedResources(t), roadmaptest.Options{TotalWeeks: 5, HoursPerWeek: 10})
	roadmaptest.Week(doc, 4)["total_hours"] = float64(2)

	warnings := ValidateContent(doc, 10)
	assert.Equal(t, []string{"Week 5: total hours 2.0 outside 8.0-12.0 for a 10 hour week"}, warnings)
}

func TestValidateContent_Empty(t *testing.T) {
	assert.Equal(t, []string{"roadmap is empty"}, ValidateContent(nil, 10))
}
