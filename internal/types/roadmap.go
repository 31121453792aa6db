package types

import (
	"encoding/json"
	"fmt"
)

// Document is a roadmap as decoded from model output, before any typing is applied.
// Validation and repair operate on this form because the model may produce any shape.
type Document map[string]any

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

// Weeks returns the weekly_plans entries that are objects, keeping their index.
func (d Document) Weeks() []map[string]any {
	raw, ok := d["weekly_plans"].([]any)
	if !ok {
		return nil
	}
	weeks := make([]map[string]any, 0, len(raw))
	for _, w := range raw {
		if m, ok := w.(map[string]any); ok {
			weeks = append(weeks, m)
		}
	}
	return weeks
}

// Roadmap decodes the document into its typed view.
func (d Document) Roadmap() (*Roadmap, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roadmap document: %w", err)
	}
	var r Roadmap
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode roadmap document: %w", err)
	}
	return &r, nil
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// Roadmap is the typed view of a validated and repaired roadmap
type Roadmap struct {
	TotalDurationWeeks      int              `json:"total_duration_weeks"`
	EstimatedCompletionDate string           `json:"estimated_completion_date"`
	Phases                  []Phase          `json:"phases"`
	WeeklyPlans             []WeekPlan       `json:"weekly_plans"`
	Projects                []Project        `json:"projects"`
	CareerInsights          string           `json:"career_insights"`
	SkillGapAnalysis        SkillGapAnalysis `json:"skill_gap_analysis"`
}

// Phase groups consecutive weeks around a set of tools
type Phase struct {
	PhaseNumber        int      `json:"phase_number"`
	Title              string   `json:"title"`
	DurationWeeks      int      `json:"duration_weeks"`
	ToolsCovered       []string `json:"tools_covered"`
	LearningObjectives []string `json:"learning_objectives"`
	Milestones         []string `json:"milestones"`
	WeeklyHours        float64  `json:"weekly_hours"`
}

// WeekPlan is either detailed (DailyPlans set) or high-level (MainTopics/KeyResource set)
type WeekPlan struct {
	Week          int          `json:"week"`
	Phase         int          `json:"phase"`
	Focus         string       `json:"focus"`
	Objectives    []string     `json:"objectives,omitempty"`
	Prerequisites []string     `json:"prerequisites,omitempty"`
	DailyPlans    []DailyPlan  `json:"daily_plans,omitempty"`
	MainTopics    []string     `json:"main_topics,omitempty"`
	TotalHours    float64      `json:"total_hours,omitempty"`
	KeyResource   *KeyResource `json:"key_resource,omitempty"`
}

// Detailed reports whether the week carries a day-by-day breakdown.
func (w WeekPlan) Detailed() bool {
	return len(w.DailyPlans) > 0
}

// DailyPlan is a single day of a detailed week
type DailyPlan struct {
	Day      int         `json:"day"`
	Topic    string      `json:"topic"`
	Tasks    []string    `json:"tasks"`
	Hours    float64     `json:"hours"`
	Resource DayResource `json:"resource"`
	Practice string      `json:"practice"`
	Outcome  string      `json:"outcome"`
}

// DayResource is a catalog resource annotated with what to focus on that day
type DayResource struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Platform    string   `json:"platform"`
	URL         string   `json:"url"`
	Topics      []string `json:"topics,omitempty"`
	Duration    string   `json:"duration"`
	Difficulty  string   `json:"difficulty,omitempty"`
	WhatToLearn string   `json:"what_to_learn"`
}

// KeyResource is the abbreviated resource attached to a high-level week
type KeyResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Project is a hands-on project suggested alongside the weekly plan
type Project struct {
	Title            string   `json:"title"`
	ProblemStatement string   `json:"problem_statement"`
	Technologies     []string `json:"technologies"`
	Difficulty       string   `json:"difficulty"`
	EstimatedHours   float64  `json:"estimated_hours"`
	LearningOutcomes []string `json:"learning_outcomes"`
	Steps            []string `json:"steps"`
	StartWeek        int      `json:"start_week"`
	BonusFeatures    []string `json:"bonus_features"`
}

// SkillGapAnalysis compares the current profile with the target tools
type SkillGapAnalysis struct {
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
	Challenges []string `json:"challenges"`
	Strategies []string `json:"strategies"`
}
