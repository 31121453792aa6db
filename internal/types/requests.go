package types

// GenerateRequest carries the inputs of a roadmap generation
type GenerateRequest struct {
	Profile       Profile  `json:"profile"`
	SelectedTools []string `json:"selected_tools" validate:"required,min=1,max=10,dive,required"`
	HoursPerWeek  float64  `json:"hours_per_week" validate:"gt=0,lte=80"`
	LearningStyle string   `json:"learning_style,omitempty"`
	Deadline      string   `json:"deadline,omitempty"`
}

// Defaults applied when the caller leaves optional fields empty
const (
	DefaultLearningStyle = "Balanced"
	DefaultDeadline      = "Flexible"
)

// ApplyDefaults fills optional fields.
func (r *GenerateRequest) ApplyDefaults() {
	if r.LearningStyle == "" {
		r.LearningStyle = DefaultLearningStyle
	}
	if r.Deadline == "" {
		r.Deadline = DefaultDeadline
	}
	r.Profile.Normalize()
}

// GenerationResult is what a successful generation hands back to the caller
type GenerationResult struct {
	GenerationID  string   `json:"generation_id"`
	Roadmap       Document `json:"roadmap"`
	Warnings      []string `json:"warnings"`
	Attempts      int      `json:"attempts"`
	FromCache     bool     `json:"from_cache"`
	TotalWeeks    int      `json:"total_weeks"`
	DetailedWeeks int      `json:"detailed_weeks"`
}

// DomainRecommendation is a technology domain suggested for a profile
type DomainRecommendation struct {
	Domain       string    `json:"domain"`
	Reason       string    `json:"reason"`
	Difficulty   string    `json:"difficulty"`
	MarketDemand string    `json:"market_demand"`
	KeyTools     []KeyTool `json:"key_tools"`
}

// KeyTool is a tool inside a recommended domain
type KeyTool struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	LearningTimeWeeks float64 `json:"learning_time_weeks"`
	InCatalog         bool    `json:"in_catalog"`
}

// ChatExchange is one earlier question and answer of a chat
type ChatExchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ChatContext is what the assistant is told about the learner. The caller keeps
// the history; the server holds no chat state.
type ChatContext struct {
	Profile        *Profile       `json:"profile,omitempty"`
	RoadmapSummary string         `json:"roadmap_summary,omitempty"`
	History        []ChatExchange `json:"history,omitempty"`
}

// ChatRequest carries one chat turn
type ChatRequest struct {
	Message string      `json:"message" validate:"required,max=4000"`
	Context ChatContext `json:"context"`
}
