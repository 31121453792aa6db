// Package roadmaptest builds roadmap documents for tests. Documents use the same
// value types as decoded JSON (float64 numbers, []any, map[string]any).
package roadmaptest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/types"
)

// ProblemStatement is long enough to satisfy the project minimum.
var ProblemStatement = strings.Repeat("Teams lose hours every week tracking work by hand. ", 3)

// Options shapes a generated document
type Options struct {
	TotalWeeks    int
	DetailedWeeks int
	HoursPerWeek  float64
}

// Document returns a roadmap that passes structural and content validation when
// checked against the given resources. Day resources cycle through resources.
func Document(resources []types.Resource, opts Options) types.Document {
	if opts.TotalWeeks == 0 {
		opts.TotalWeeks = 5
	}
	if opts.DetailedWeeks == 0 {
		opts.DetailedWeeks = min(4, opts.TotalWeeks)
	}
	if opts.HoursPerWeek == 0 {
		opts.HoursPerWeek = 7
	}

	weeks := make([]any, 0, opts.TotalWeeks)
	next := 0
	pick := func() types.Resource {
		r := resources[next%len(resources)]
		next++
		return r
	}
	for w := 1; w <= opts.TotalWeeks; w++ {
		if w <= opts.DetailedWeeks {
			days := make([]any, 0, 7)
			for d := 1; d <= 7; d++ {
				days = append(days, map[string]any{
					"day":      float64(d),
					"topic":    fmt.Sprintf("Topic %d.%d", w, d),
					"tasks":    []any{"read", "practice"},
					"hours":    opts.HoursPerWeek / 7,
					"resource": pick().DayResource(fmt.Sprintf("Sections for week %d day %d", w, d)),
					"practice": "exercise",
					"outcome":  "understanding",
				})
			}
			weeks = append(weeks, map[string]any{
				"week":          float64(w),
				"phase":         float64(1),
				"focus":         fmt.Sprintf("Focus %d", w),
				"objectives":    []any{"learn"},
				"prerequisites": []any{},
				"daily_plans":   days,
			})
			continue
		}
		weeks = append(weeks, map[string]any{
			"week":         float64(w),
			"phase":        float64(2),
			"focus":        fmt.Sprintf("Focus %d", w),
			"main_topics":  []any{"advanced"},
			"total_hours":  opts.HoursPerWeek,
			"key_resource": pick().KeyResource(),
		})
	}

	return types.Document{
		"total_duration_weeks":      float64(opts.TotalWeeks),
		"estimated_completion_date": "2026-12-31",
		"phases": []any{map[string]any{
			"phase_number":        float64(1),
			"title":               "Foundations",
			"duration_weeks":      float64(opts.TotalWeeks),
			"tools_covered":       []any{"React"},
			"learning_objectives": []any{"basics"},
			"milestones":          []any{"first app"},
			"weekly_hours":        opts.HoursPerWeek,
		}},
		"weekly_plans": weeks,
		"projects": []any{map[string]any{
			"title":             "Tracker",
			"problem_statement": ProblemStatement,
			"technologies":      []any{"React"},
			"difficulty":        "Beginner",
			"estimated_hours":   float64(10),
			"learning_outcomes": []any{"state"},
			"steps":             []any{"scaffold", "build"},
			"start_week":        float64(2),
			"bonus_features":    []any{"auth", "export"},
		}},
		"career_insights": "Strong demand for frontend skills.",
		"skill_gap_analysis": map[string]any{
			"strengths":  []any{"SQL"},
			"gaps":       []any{"React"},
			"challenges": []any{"time"},
			"strategies": []any{"practice"},
		},
	}
}

// JSON renders the document as model output would carry it.
func JSON(doc types.Document) string {
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Day returns the day object at week index w and day index d.
func Day(doc types.Document, w, d int) map[string]any {
	week := doc["weekly_plans"].([]any)[w].(map[string]any)
	return week["daily_plans"].([]any)[d].(map[string]any)
}

// DayResource returns the resource object of a day.
func DayResource(doc types.Document, w, d int) map[string]any {
	return Day(doc, w, d)["resource"].(map[string]any)
}

// Week returns the week object at index w.
func Week(doc types.Document, w int) map[string]any {
	return doc["weekly_plans"].([]any)[w].(map[string]any)
}
