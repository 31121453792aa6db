package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/roadmap-generator/internal/catalog"
)

// Kind is the JSON type a field must hold
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "a string"
	case KindNumber:
		return "a number"
	case KindArray:
		return "an array"
	case KindObject:
		return "an object"
	}
	return "unknown"
}

// FieldRule describes one field of an entity.
type FieldRule struct {
	Name     string
	Kind     Kind
	Required bool
	// NonEmpty rejects blank strings and empty arrays
	NonEmpty bool
	// MinLength is a minimum string length in characters
	MinLength int
	MinItems  int
	// ExactItems pins an array length when non-zero
	ExactItems int
	// Check runs after the type checks pass and returns a problem or ""
	Check func(v any) string
}

// EntitySchema is the declarative description of one roadmap entity
type EntitySchema struct {
	Name   string
	Fields []FieldRule
}

// Check applies every rule to obj and returns the problems found. Each problem is
// prefixed with prefix and the field name, e.g. "resource.url must ...".
func (s EntitySchema) Check(obj map[string]any, prefix string) []string {
	var problems []string
	for _, rule := range s.Fields {
		name := prefix + rule.Name
		v, present := obj[rule.Name]
		if !present || v == nil {
			if rule.Required {
				problems = append(problems, fmt.Sprintf("%s is missing", name))
			}
			continue
		}
		if !hasKind(v, rule.Kind) {
			problems = append(problems, fmt.Sprintf("%s must be %s", name, rule.Kind))
			continue
		}
		if p := rule.checkValue(v); p != "" {
			problems = append(problems, fmt.Sprintf("%s %s", name, p))
			continue
		}
		if rule.Check != nil {
			if p := rule.Check(v); p != "" {
				problems = append(problems, fmt.Sprintf("%s %s", name, p))
			}
		}
	}
	return problems
}

func (r FieldRule) checkValue(v any) string {
	switch t := v.(type) {
	case string:
		if r.NonEmpty && strings.TrimSpace(t) == "" {
			return "must not be empty"
		}
		if n := utf8.RuneCountInString(t); r.MinLength > 0 && n < r.MinLength {
			return fmt.Sprintf("must be at least %d characters (got %d)", r.MinLength, n)
		}
	case []any:
		if r.NonEmpty && len(t) == 0 {
			return "must not be empty"
		}
		if r.ExactItems > 0 && len(t) != r.ExactItems {
			return fmt.Sprintf("must have exactly %d entries (got %d)", r.ExactItems, len(t))
		}
		if r.MinItems > 0 && len(t) < r.MinItems {
			return fmt.Sprintf("must have at least %d entries (got %d)", r.MinItems, len(t))
		}
	}
	return ""
}

func hasKind(v any, k Kind) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		switch v.(type) {
		case float64, float32, int, int64, int32:
			return true
		}
		return false
	case KindArray:
		_, ok := v.([]any)
		return ok
	case KindObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

func requiredString(name string) FieldRule {
	return FieldRule{Name: name, Kind: KindString, Required: true, NonEmpty: true}
}

// urlRule enforces the URL policy: http(s) only, no video hosts and, when a
// non-empty verified set is given, membership in it.
func urlRule(verified catalog.URLSet) FieldRule {
	rule := requiredString("url")
	rule.Check = func(v any) string {
		raw := v.(string)
		switch {
		case !IsHTTPURL(raw):
			return "must start with http:// or https://"
		case IsVideoURL(raw):
			return fmt.Sprintf("points to a video platform (%s)", raw)
		case len(verified) > 0 && !verified.Contains(raw):
			return fmt.Sprintf("is not a verified resource (%s)", raw)
		}
		return ""
	}
	return rule
}

func typeRule(required bool) FieldRule {
	return FieldRule{
		Name:     "type",
		Kind:     KindString,
		Required: required,
		NonEmpty: required,
		Check: func(v any) string {
			t := v.(string)
			if IsVideoLabel(t) {
				return fmt.Sprintf("%q is video content", t)
			}
			if strings.TrimSpace(t) != "" && !IsAllowedType(t) {
				return fmt.Sprintf("%q is not an allowed resource type", t)
			}
			return ""
		},
	}
}

func platformRule() FieldRule {
	rule := requiredString("platform")
	rule.Check = func(v any) string {
		if p := v.(string); IsVideoLabel(p) {
			return fmt.Sprintf("%q is a video platform", p)
		}
		return ""
	}
	return rule
}

// DayResourceSchema describes the resource attached to one day of a detailed week.
func DayResourceSchema(verified catalog.URLSet) EntitySchema {
	return EntitySchema{
		Name: "resource",
		Fields: []FieldRule{
			requiredString("title"),
			typeRule(true),
			platformRule(),
			urlRule(verified),
			requiredString("what_to_learn"),
			requiredString("duration"),
		},
	}
}

// KeyResourceSchema describes the abbreviated resource of a high-level week.
func KeyResourceSchema(verified catalog.URLSet) EntitySchema {
	platform := platformRule()
	platform.Required = false
	platform.NonEmpty = false
	return EntitySchema{
		Name: "key_resource",
		Fields: []FieldRule{
			requiredString("title"),
			urlRule(verified),
			typeRule(false),
			platform,
		},
	}
}

// DetailedWeekSchema describes the day-by-day container of a detailed week.
var DetailedWeekSchema = EntitySchema{
	Name: "detailed week",
	Fields: []FieldRule{
		{Name: "daily_plans", Kind: KindArray, Required: true, ExactItems: 7},
	},
}

// HighLevelWeekSchema describes the summary fields of a high-level week.
var HighLevelWeekSchema = EntitySchema{
	Name: "high-level week",
	Fields: []FieldRule{
		{Name: "main_topics", Kind: KindArray},
		{Name: "key_resource", Kind: KindObject},
		{Name: "total_hours", Kind: KindNumber},
	},
}

// ProjectSchema describes the enforced minimums of a project.
var ProjectSchema = EntitySchema{
	Name: "project",
	Fields: []FieldRule{
		{Name: "problem_statement", Kind: KindString, Required: true, MinLength: 100},
		{Name: "bonus_features", Kind: KindArray, Required: true, MinItems: 2},
	},
}
