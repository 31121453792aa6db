package validation

import (
	"fmt"
	"math"

	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/types"
)

// Result is the outcome of structural validation
type Result struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateStructure applies the blocking rules: week shapes, seven days per
// detailed week, complete resources, the URL and video policies and the project
// minimums. When verified is non-empty every resource URL must belong to it.
func ValidateStructure(doc types.Document, verified catalog.URLSet) Result {
	var errs []string
	if doc == nil {
		return Result{Errors: []string{"roadmap is empty"}}
	}

	raw, present := doc["weekly_plans"]
	weeks, isArray := raw.([]any)
	switch {
	case !present || raw == nil:
		errs = append(errs, "weekly_plans is missing")
	case !isArray:
		errs = append(errs, "weekly_plans must be an array")
	default:
		dayRes := DayResourceSchema(verified)
		keyRes := KeyResourceSchema(verified)
		for i, w := range weeks {
			errs = append(errs, checkWeek(i, w, dayRes, keyRes)...)
		}
	}

	errs = append(errs, checkProjects(doc)...)
	return Result{OK: len(errs) == 0, Errors: errs}
}

func checkWeek(index int, raw any, dayRes, keyRes EntitySchema) []string {
	week, ok := raw.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("Week %d: must be an object", index+1)}
	}
	label := WeekLabel(week, index)

	if IsDetailedWeek(week) {
		problems := prefixed(label+": ", DetailedWeekSchema.Check(week, ""))
		days, _ := week["daily_plans"].([]any)
		for j, d := range days {
			problems = append(problems, checkDay(label, j, d, dayRes)...)
		}
		return problems
	}

	if !IsHighLevelWeek(week) {
		return []string{label + ": must have either daily_plans or main_topics/key_resource"}
	}
	problems := prefixed(label+": ", HighLevelWeekSchema.Check(week, ""))
	if kr, ok := week["key_resource"].(map[string]any); ok {
		problems = append(problems, prefixed(label+": ", keyRes.Check(kr, "key_resource."))...)
	}
	return problems
}

func checkDay(weekLabel string, index int, raw any, dayRes EntitySchema) []string {
	day, ok := raw.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s, Day %d: must be an object", weekLabel, index+1)}
	}
	label := DayLabel(weekLabel, day, index)

	res, present := day["resource"]
	if !present || res == nil {
		return []string{label + ": resource is missing"}
	}
	obj, ok := res.(map[string]any)
	if !ok {
		return []string{label + ": resource must be an object"}
	}
	return prefixed(label+": ", dayRes.Check(obj, "resource."))
}

func checkProjects(doc types.Document) []string {
	raw, present := doc["projects"]
	if !present || raw == nil {
		return nil
	}
	projects, ok := raw.([]any)
	if !ok {
		return []string{"projects must be an array"}
	}
	var errs []string
	for i, p := range projects {
		label := fmt.Sprintf("Project %d", i+1)
		obj, ok := p.(map[string]any)
		if !ok {
			errs = append(errs, label+": must be an object")
			continue
		}
		if title := stringField(obj, "title"); title != "" {
			label = fmt.Sprintf("Project %d (%s)", i+1, title)
		}
		errs = append(errs, prefixed(label+": ", ProjectSchema.Check(obj, ""))...)
	}
	return errs
}

// IsDetailedWeek reports whether the week carries non-null daily_plans.
func IsDetailedWeek(week map[string]any) bool {
	return week["daily_plans"] != nil
}

// IsHighLevelWeek reports whether the week carries a non-empty main_topics list
// or a key_resource object. Null or empty values count as absent.
func IsHighLevelWeek(week map[string]any) bool {
	if topics, ok := week["main_topics"].([]any); ok && len(topics) > 0 {
		return true
	}
	_, ok := week["key_resource"].(map[string]any)
	return ok
}

// WeekLabel returns "Week N" using the week's own number when it has a usable one
// and its position otherwise.
func WeekLabel(week map[string]any, index int) string {
	if n, ok := wholeNumber(week["week"]); ok && n > 0 {
		return fmt.Sprintf("Week %d", n)
	}
	return fmt.Sprintf("Week %d", index+1)
}

// DayLabel returns "Week N, Day D" following the same numbering rule.
func DayLabel(weekLabel string, day map[string]any, index int) string {
	if n, ok := wholeNumber(day["day"]); ok && n > 0 {
		return fmt.Sprintf("%s, Day %d", weekLabel, n)
	}
	return fmt.Sprintf("%s, Day %d", weekLabel, index+1)
}

func wholeNumber(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		return t, true
	case int64:
		return int(t), true
	default:
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func prefixed(prefix string, problems []string) []string {
	for i := range problems {
		problems[i] = prefix + problems[i]
	}
	return problems
}
