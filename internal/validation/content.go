package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/schemas"
	"github.com/jonathan/roadmap-generator/internal/types"
)

// HoursTolerance is the accepted relative deviation of a week's hours from the
// requested weekly budget.
const HoursTolerance = 0.20

// ValidateContent runs the non-blocking checks: top-level fields and container
// types, the 1-7 day set of every detailed week, positive daily hours and the
// weekly hour budget. The returned warnings never prevent delivery.
func ValidateContent(doc types.Document, hoursPerWeek float64) []string {
	if doc == nil {
		return []string{"roadmap is empty"}
	}

	var warnings []string
	if err := schemas.ValidateDocument(schemas.Roadmap, map[string]any(doc)); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			warnings = append(warnings, ve.Messages()...)
		} else {
			warnings = append(warnings, err.Error())
		}
	}

	weeks, _ := doc["weekly_plans"].([]any)
	for i, raw := range weeks {
		week, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		label := WeekLabel(week, i)
		if IsDetailedWeek(week) {
			warnings = append(warnings, checkDetailedContent(label, week, hoursPerWeek)...)
			if IsHighLevelWeek(week) {
				warnings = append(warnings, label+": has both daily_plans and high-level fields")
			}
			continue
		}
		if total, ok := number(week["total_hours"]); ok {
			if w := checkBudget(label, total, hoursPerWeek); w != "" {
				warnings = append(warnings, w)
			}
		}
	}
	return warnings
}

func checkDetailedContent(label string, week map[string]any, hoursPerWeek float64) []string {
	days, ok := week["daily_plans"].([]any)
	if !ok {
		return nil
	}

	var warnings []string
	seen := make(map[int]int, 7)
	total := 0.0
	for j, raw := range days {
		day, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		dayLabel := DayLabel(label, day, j)

		n, ok := wholeNumber(day["day"])
		if !ok || n < 1 || n > 7 {
			warnings = append(warnings, fmt.Sprintf("%s: day must be an integer between 1 and 7", dayLabel))
		} else {
			seen[n]++
		}

		h, ok := number(day["hours"])
		if !ok || h <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s: hours must be a positive number", dayLabel))
			continue
		}
		total += h
	}

	var missing []string
	for d := 1; d <= 7; d++ {
		if seen[d] == 0 {
			missing = append(missing, fmt.Sprint(d))
		}
	}
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("%s: missing day(s) %s", label, strings.Join(missing, ", ")))
	}
	dups := make([]int, 0)
	for d, count := range seen {
		if count > 1 {
			dups = append(dups, d)
		}
	}
	sort.Ints(dups)
	for _, d := range dups {
		warnings = append(warnings, fmt.Sprintf("%s: day %d appears %d times", label, d, seen[d]))
	}

	if w := checkBudget(label, total, hoursPerWeek); w != "" {
		warnings = append(warnings, w)
	}
	return warnings
}

func checkBudget(label string, total, hoursPerWeek float64) string {
	if hoursPerWeek <= 0 {
		return ""
	}
	low := hoursPerWeek * (1 - HoursTolerance)
	high := hoursPerWeek * (1 + HoursTolerance)
	if total < low || total > high {
		return fmt.Sprintf("%s: total hours %.1f outside %.1f-%.1f for a %g hour week", label, total, low, high, hoursPerWeek)
	}
	return ""
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
