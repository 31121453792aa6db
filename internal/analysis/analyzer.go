// Package analysis holds the thin model calls around roadmap generation: resume
// analysis into a Profile, technology domain recommendations and the mentor chat.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/roadmap-generator/internal/cache"
	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/logger"
	"github.com/jonathan/roadmap-generator/internal/prompts"
	"github.com/jonathan/roadmap-generator/internal/schemas"
	"github.com/jonathan/roadmap-generator/internal/types"
)

const (
	// MaxResumeChars caps the resume text sent to the model
	MaxResumeChars = 50000
	// DefaultTimeout bounds one analysis call
	DefaultTimeout = 2 * time.Minute

	profileMaxTokens   = 2000
	recommendMaxTokens = 3000
)

// Analyzer runs resume analysis and domain recommendation through the gateway.
type Analyzer struct {
	gateway  llm.Gateway
	catalog  *catalog.Catalog
	profiles cache.Store[types.Profile]
	domains  cache.Store[[]types.DomainRecommendation]
	chats    cache.Store[string]
	log      *logger.Logger
	timeout  time.Duration
}

// Option customises an Analyzer
type Option func(*Analyzer)

// WithProfileCache caches AnalyzeResume results
func WithProfileCache(s cache.Store[types.Profile]) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.profiles = s
		}
	}
}

// WithRecommendationCache caches RecommendDomains results
func WithRecommendationCache(s cache.Store[[]types.DomainRecommendation]) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.domains = s
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithTimeout sets the per-call model timeout
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAnalyzer creates an Analyzer. Without cache options nothing is cached.
func NewAnalyzer(gateway llm.Gateway, cat *catalog.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		gateway:  gateway,
		catalog:  cat,
		profiles: cache.Noop[types.Profile]{},
		domains:  cache.Noop[[]types.DomainRecommendation]{},
		chats:    cache.Noop[string]{},
		log:      logger.Nop(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeResume extracts a Profile from plain resume text. Text beyond
// MaxResumeChars is dropped. Gateway errors are returned unchanged.
func (a *Analyzer) AnalyzeResume(ctx context.Context, rawText string) (*types.Profile, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, &InputError{Message: "resume text is empty"}
	}
	if utf8.RuneCountInString(text) > MaxResumeChars {
		text = string([]rune(text)[:MaxResumeChars])
		a.log.Warn("resume text truncated", "limit", MaxResumeChars)
	}

	key, err := cache.Key("analyze_resume", text)
	if err != nil {
		return nil, err
	}
	if cached, ok := a.profiles.Get(ctx, key); ok {
		return &cached, nil
	}

	response, err := a.gateway.Complete(ctx, llm.Request{
		Prompt:    llm.BuildExtractionPrompt(llm.ResumeProfileSchema(), text),
		MaxTokens: profileMaxTokens,
		Timeout:   a.timeout,
		Tier:      llm.TierStandard,
		Operation: "analyze_resume",
	})
	if err != nil {
		return nil, err
	}

	raw, err := decodeObject(response, schemas.ResumeProfile)
	if err != nil {
		return nil, err
	}
	profile := profileFromMap(raw)
	a.log.Info("resume analyzed",
		"skills", len(profile.Skills),
		"experience_level", profile.ExperienceLevel)

	a.profiles.Put(ctx, key, profile)
	return &profile, nil
}

// RecommendDomains suggests technology domains for profile. Each key tool is
// flagged with whether the catalog has resources for it.
func (a *Analyzer) RecommendDomains(ctx context.Context, profile types.Profile) ([]types.DomainRecommendation, error) {
	profile.Normalize()
	key, err := cache.Key("recommend_domains", struct {
		Skills  []string `json:"skills"`
		Level   string   `json:"level"`
		Years   float64  `json:"years"`
		Domains []string `json:"domains"`
	}{profile.Skills, string(profile.ExperienceLevel), profile.YearsOfExperience, profile.Domains})
	if err != nil {
		return nil, err
	}
	if cached, ok := a.domains.Get(ctx, key); ok {
		return cached, nil
	}

	prompt, err := prompts.BuildRecommendPrompt(prompts.RecommendInput{
		Profile:           profile,
		KnownTechnologies: a.catalog.Technologies(),
	})
	if err != nil {
		return nil, err
	}

	response, err := a.gateway.Complete(ctx, llm.Request{
		Prompt:    prompt,
		MaxTokens: recommendMaxTokens,
		Timeout:   a.timeout,
		Tier:      llm.TierStandard,
		Operation: "recommend_domains",
	})
	if err != nil {
		return nil, err
	}

	raw, err := decodeObject(response, schemas.DomainRecommendations)
	if err != nil {
		return nil, err
	}
	recs, err := a.recommendationsFromMap(raw)
	if err != nil {
		return nil, err
	}
	a.log.Info("domains recommended", "count", len(recs))

	a.domains.Put(ctx, key, recs)
	return recs, nil
}

func (a *Analyzer) recommendationsFromMap(raw map[string]any) ([]types.DomainRecommendation, error) {
	var parsed struct {
		Recommendations []types.DomainRecommendation `json:"recommendations"`
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &ParseError{Message: "failed to re-encode recommendations", Cause: err}
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &ParseError{Message: "recommendations have the wrong shape", Cause: err}
	}

	recs := parsed.Recommendations
	if recs == nil {
		recs = []types.DomainRecommendation{}
	}
	for i := range recs {
		if recs[i].KeyTools == nil {
			recs[i].KeyTools = []types.KeyTool{}
		}
		for j := range recs[i].KeyTools {
			tool := &recs[i].KeyTools[j]
			tool.InCatalog = a.catalog.Has(NormalizeSkillName(tool.Name))
		}
	}
	return recs, nil
}

// decodeObject reads one JSON object from model text and checks it against an
// embedded schema.
func decodeObject(response, schema string) (map[string]any, error) {
	cleaned := llm.CleanJSONBlock(response)
	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &ParseError{Message: "model output is not a JSON object", Cause: err}
	}
	if raw == nil {
		return nil, &ParseError{Message: "model returned an empty document"}
	}
	if err := schemas.ValidateDocument(schema, raw); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return nil, &ParseError{Message: "model output does not match " + schema, Cause: err}
		}
		return nil, err
	}
	return raw, nil
}

func profileFromMap(raw map[string]any) types.Profile {
	role, _ := raw["current_role"].(string)
	level, _ := raw["experience_level"].(string)
	p := types.Profile{
		Skills:            NormalizeSkills(stringList(raw["skills"])),
		YearsOfExperience: parseYears(raw["years_of_experience"]),
		CurrentRole:       strings.TrimSpace(role),
		ExperienceLevel:   types.ExperienceLevel(level),
		Domains:           stringList(raw["domains"]),
		RecentTech:        NormalizeSkills(stringList(raw["recent_tech"])),
		TopSkills:         NormalizeSkills(stringList(raw["top_skills"])),
	}
	p.Normalize()
	return p
}
