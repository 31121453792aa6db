package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// skillAliases maps common variants to the names the catalog uses
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue.js",
	"vuejs":      "Vue.js",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
}

// NormalizeSkillName maps a skill name to its canonical form.
func NormalizeSkillName(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := skillAliases[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// NormalizeSkills canonicalises names and drops blanks and case-insensitive duplicates.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = NormalizeSkillName(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

var leadingNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// parseYears accepts 5, 5.5, "5", "5+ years" and returns 0 for anything else.
func parseYears(v any) float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0
		}
		return t
	case string:
		if m := leadingNumber.FindString(t); m != "" {
			f, err := strconv.ParseFloat(m, 64)
			if err == nil {
				return f
			}
		}
	}
	return 0
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
