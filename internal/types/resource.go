package types

// Resource types a learning resource may carry. Video formats are never allowed.
const (
	ResourceInteractiveCourse   = "Interactive Course"
	ResourceDocumentation       = "Documentation"
	ResourceTutorialArticle     = "Tutorial Article"
	ResourceInteractivePlatform = "Interactive Platform"
	ResourceGitHubTutorial      = "GitHub Tutorial"
	ResourceFreeGuide           = "Free Guide"
)

// AllowedResourceTypes lists every accepted resource type in display order
var AllowedResourceTypes = []string{
	ResourceInteractiveCourse,
	ResourceDocumentation,
	ResourceTutorialArticle,
	ResourceInteractivePlatform,
	ResourceGitHubTutorial,
	ResourceFreeGuide,
}

// Resource is a curated learning resource from the catalog
type Resource struct {
	Title      string   `json:"title" yaml:"title"`
	Type       string   `json:"type" yaml:"type"`
	Platform   string   `json:"platform" yaml:"platform"`
	URL        string   `json:"url" yaml:"url"`
	Topics     []string `json:"topics" yaml:"topics"`
	Duration   string   `json:"duration" yaml:"duration"`
	Difficulty string   `json:"difficulty" yaml:"difficulty"`
}

// DayResource returns the resource as the object placed on a daily plan.
func (r Resource) DayResource(whatToLearn string) map[string]any {
	topics := make([]any, 0, len(r.Topics))
	for _, t := range r.Topics {
		topics = append(topics, t)
	}
	return map[string]any{
		"title":         r.Title,
		"type":          r.Type,
		"platform":      r.Platform,
		"url":           r.URL,
		"topics":        topics,
		"duration":      r.Duration,
		"difficulty":    r.Difficulty,
		"what_to_learn": whatToLearn,
	}
}

// KeyResource returns the abbreviated form used by high-level weeks.
func (r Resource) KeyResource() map[string]any {
	return map[string]any{
		"title": r.Title,
		"url":   r.URL,
		"type":  r.Type,
	}
}
