package prompts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/types"
)

const (
	roadmapFile  = "roadmap.json"
	analysisFile = "analysis.json"
)

// RoadmapInput is everything the roadmap prompt depends on
type RoadmapInput struct {
	Profile        types.Profile
	Technologies   []string
	HoursPerWeek   float64
	LearningStyle  string
	Deadline       string
	Resources      []types.Resource
	DetailedWeeks  int
	TotalWeeks     int
	CompletionDate string // computed by the caller so the prompt stays deterministic
	Strict         bool
}

// BuildRoadmapPrompt renders the generation prompt. The same input always yields
// the same text. Strict appends the directive used when retrying a rejected answer.
func BuildRoadmapPrompt(in RoadmapInput) (string, error) {
	body, err := Get(roadmapFile, "generate-roadmap")
	if err != nil {
		return "", err
	}
	schema, err := Get(roadmapFile, "roadmap-schema")
	if err != nil {
		return "", err
	}

	hours := formatNumber(in.HoursPerWeek)
	data := map[string]string{
		"CurrentRole":        orDefault(in.Profile.CurrentRole, "Not specified"),
		"Skills":             joinOrNone(in.Profile.Skills),
		"Years":              formatNumber(in.Profile.YearsOfExperience),
		"Level":              string(orLevel(in.Profile.ExperienceLevel)),
		"Technologies":       joinOrNone(in.Technologies),
		"HoursPerWeek":       hours,
		"DailyHours":         strconv.FormatFloat(in.HoursPerWeek/7, 'f', 1, 64),
		"LearningStyle":      orDefault(in.LearningStyle, types.DefaultLearningStyle),
		"Deadline":           orDefault(in.Deadline, types.DefaultDeadline),
		"TotalWeeks":         strconv.Itoa(in.TotalWeeks),
		"DetailedWeeks":      strconv.Itoa(in.DetailedWeeks),
		"FirstHighLevelWeek": strconv.Itoa(in.DetailedWeeks + 1),
		"CompletionDate":     in.CompletionDate,
		"Resources":          FormatResources(in.Resources),
		"WeekShapeRule":      weekShapeRule(in.DetailedWeeks, in.TotalWeeks),
		"AllowedTypes":       strings.Join(types.AllowedResourceTypes, ", "),
	}
	// the schema carries placeholders of its own
	data["Schema"] = Format(schema, data)

	prompt := Format(body, data)
	if in.Strict {
		directive, err := Get(roadmapFile, "strict-directive")
		if err != nil {
			return "", err
		}
		prompt = strings.TrimRight(prompt, "\n") + "\n\n" + directive + "\n"
	}
	return prompt, nil
}

// FormatResources renders the whitelist the model must choose from.
func FormatResources(resources []types.Resource) string {
	if len(resources) == 0 {
		return "(none available)"
	}
	var sb strings.Builder
	for i, r := range resources {
		sb.WriteString(fmt.Sprintf("%d. Title: %s\n", i+1, r.Title))
		sb.WriteString(fmt.Sprintf("   Type: %s | Platform: %s | Duration: %s\n", r.Type, r.Platform, r.Duration))
		sb.WriteString(fmt.Sprintf("   URL: %s\n", r.URL))
		if len(r.Topics) > 0 {
			sb.WriteString(fmt.Sprintf("   Topics: %s\n", strings.Join(r.Topics, ", ")))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RecommendInput is what the domain recommendation prompt depends on
type RecommendInput struct {
	Profile           types.Profile
	KnownTechnologies []string
}

// BuildRecommendPrompt renders the domain recommendation prompt.
func BuildRecommendPrompt(in RecommendInput) (string, error) {
	body, err := Get(analysisFile, "recommend-domains")
	if err != nil {
		return "", err
	}
	return Format(body, map[string]string{
		"Skills":            joinOrNone(in.Profile.Skills),
		"Level":             string(orLevel(in.Profile.ExperienceLevel)),
		"Years":             formatNumber(in.Profile.YearsOfExperience),
		"Domains":           joinOrNone(in.Profile.Domains),
		"KnownTechnologies": joinOrNone(in.KnownTechnologies),
	}), nil
}

// MaxChatHistory is how many earlier exchanges the chat prompt carries
const MaxChatHistory = 5

// ChatInput is what the chat prompt depends on
type ChatInput struct {
	Profile        *types.Profile
	RoadmapSummary string
	History        []types.ChatExchange
	Message        string
}

// BuildChatPrompt renders the mentor prompt. Only the last MaxChatHistory
// exchanges of the history are included.
func BuildChatPrompt(in ChatInput) (string, error) {
	body, err := Get(analysisFile, "chat-assistant")
	if err != nil {
		return "", err
	}

	profile := "Not available"
	if in.Profile != nil {
		data, err := json.MarshalIndent(in.Profile, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode profile: %w", err)
		}
		profile = string(data)
	}

	history := in.History
	if len(history) > MaxChatHistory {
		history = history[len(history)-MaxChatHistory:]
	}
	historyText := "No previous conversation"
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, h := range history {
			lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", h.User, h.Assistant))
		}
		historyText = strings.Join(lines, "\n")
	}

	return Format(body, map[string]string{
		"Profile":        profile,
		"RoadmapSummary": orDefault(in.RoadmapSummary, "Not available"),
		"History":        historyText,
		"Message":        strings.TrimSpace(in.Message),
	}), nil
}

func weekShapeRule(detailed, total int) string {
	if detailed >= total {
		return fmt.Sprintf("All %d weeks are detailed weeks with daily_plans. Do not include high-level weeks.", total)
	}
	return fmt.Sprintf("Weeks 1-%d are detailed weeks with daily_plans. Weeks %d-%d are high-level weeks with main_topics, total_hours and key_resource, and no daily_plans.",
		detailed, detailed+1, total)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None listed"
	}
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func orLevel(l types.ExperienceLevel) types.ExperienceLevel {
	if l == "" {
		return types.LevelUnknown
	}
	return l
}
