package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/roadmap-generator/internal/cache"
	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/logger"
	"github.com/jonathan/roadmap-generator/internal/prompts"
	"github.com/jonathan/roadmap-generator/internal/repair"
	"github.com/jonathan/roadmap-generator/internal/types"
	"github.com/jonathan/roadmap-generator/internal/validation"
)

const (
	// DefaultTimeout bounds one generation call to the model
	DefaultTimeout = 15 * time.Minute
	// DefaultMaxTokens is the token budget of a generation call
	DefaultMaxTokens = 8000
	// maxAttempts is the first attempt plus the single strict retry
	maxAttempts = 2

	operation = "generate_roadmap"
)

// Stage names a step of a generation run
type Stage string

const (
	StageBuildInputs       Stage = "build_inputs"
	StageCacheHit          Stage = "cache_hit"
	StagePrompt            Stage = "prompt"
	StageLLMCall           Stage = "llm_call"
	StageDecode            Stage = "decode"
	StageValidateStructure Stage = "validate_structure"
	StageRetryStrict       Stage = "retry_strict"
	StageValidateContent   Stage = "validate_content"
	StageRepair            Stage = "repair"
	StageComplete          Stage = "complete"
)

// Progress is reported as a run moves through its stages
type Progress struct {
	Stage   Stage `json:"stage"`
	Attempt int   `json:"attempt,omitempty"`
}

// ProgressFunc receives progress events; it is called on the generating goroutine.
type ProgressFunc func(Progress)

// Generation outcomes reported to the Recorder
const (
	OutcomeOK         = "ok"
	OutcomeCached     = "cached"
	OutcomeStructural = "structural"
	OutcomeDecode     = "decode"
	OutcomeTransport  = "transport"
)

// Recorder receives pipeline metrics
type Recorder interface {
	ObserveCacheLookup(hit bool)
	ObserveGeneration(outcome string)
	ObserveValidationWarnings(n int)
	ObserveRepairs(reason string, n int)
}

// Generator runs the roadmap pipeline: cache, prompt, model call, decode,
// structural validation with one strict retry, content validation, repair, cache.
type Generator struct {
	gateway   llm.Gateway
	catalog   *catalog.Catalog
	cache     cache.Store[types.Document]
	log       *logger.Logger
	recorder  Recorder
	now       func() time.Time
	timeout   time.Duration
	maxTokens int
}

// Option customises a Generator
type Option func(*Generator)

// WithCache sets the roadmap cache
func WithCache(s cache.Store[types.Document]) Option {
	return func(g *Generator) {
		if s != nil {
			g.cache = s
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithClock sets the clock used for the completion date
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithTimeout sets the per-call model timeout
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithMaxTokens sets the token budget of a generation call
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// NewGenerator creates a Generator. Without WithCache results are not cached.
func NewGenerator(gateway llm.Gateway, cat *catalog.Catalog, opts ...Option) *Generator {
	g := &Generator{
		gateway:   gateway,
		catalog:   cat,
		cache:     cache.Noop[types.Document]{},
		log:       logger.Nop(),
		now:       time.Now,
		timeout:   DefaultTimeout,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// plan holds the inputs derived in the first stage
type plan struct {
	req            types.GenerateRequest
	resources      []types.Resource
	verified       catalog.URLSet
	totalWeeks     int
	detailedWeeks  int
	completionDate string
}

// Generate produces a roadmap for req. Transport errors from the gateway are
// returned unchanged; a roadmap that stays undecodable or structurally invalid
// after the strict retry yields *DecodeError or *StructuralError.
func (g *Generator) Generate(ctx context.Context, req types.GenerateRequest, progress ProgressFunc) (*types.GenerationResult, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	id := uuid.NewString()
	log := g.log.With("generation_id", id)

	progress(Progress{Stage: StageBuildInputs})
	p, err := g.buildPlan(req)
	if err != nil {
		return nil, err
	}

	key, err := CacheKey(p.req)
	if err != nil {
		return nil, err
	}
	if cached, ok := g.cache.Get(ctx, key); ok {
		g.observeCache(true)
		g.observeGeneration(OutcomeCached)
		log.Info("roadmap served from cache", "technologies", p.req.SelectedTools)
		progress(Progress{Stage: StageCacheHit})
		progress(Progress{Stage: StageComplete})
		return &types.GenerationResult{
			GenerationID:  id,
			Roadmap:       cached.Clone(),
			Warnings:      []string{},
			FromCache:     true,
			TotalWeeks:    p.totalWeeks,
			DetailedWeeks: p.detailedWeeks,
		}, nil
	}
	g.observeCache(false)

	log.Info("generating roadmap",
		"technologies", p.req.SelectedTools,
		"hours_per_week", p.req.HoursPerWeek,
		"total_weeks", p.totalWeeks,
		"resources", len(p.resources))

	doc, attempts, err := g.attempt(ctx, log, p, progress)
	if err != nil {
		return nil, err
	}

	progress(Progress{Stage: StageValidateContent})
	warnings := validation.ValidateContent(doc, p.req.HoursPerWeek)
	for _, w := range warnings {
		log.Warn("roadmap content warning", "warning", w)
	}
	g.observeWarnings(len(warnings))

	progress(Progress{Stage: StageRepair})
	repaired, report := repair.Repair(doc, p.resources)
	for _, reason := range []repair.Reason{repair.ReasonVideo, repair.ReasonUnverified, repair.ReasonIncomplete} {
		g.observeRepairs(string(reason), report.Count(reason))
	}
	if report.Changed() {
		log.Info("roadmap repaired", "actions", len(report.Actions))
	}

	g.cache.Put(ctx, key, repaired.Clone())
	g.observeGeneration(OutcomeOK)
	progress(Progress{Stage: StageComplete, Attempt: attempts})

	if warnings == nil {
		warnings = []string{}
	}
	return &types.GenerationResult{
		GenerationID:  id,
		Roadmap:       repaired,
		Warnings:      warnings,
		Attempts:      attempts,
		TotalWeeks:    p.totalWeeks,
		DetailedWeeks: p.detailedWeeks,
	}, nil
}

func (g *Generator) buildPlan(req types.GenerateRequest) (*plan, error) {
	req.ApplyDefaults()
	req.SelectedTools = cleanTools(req.SelectedTools)
	if len(req.SelectedTools) == 0 {
		return nil, &InputError{Message: "at least one technology is required"}
	}
	if req.HoursPerWeek <= 0 {
		return nil, &InputError{Message: "hours per week must be positive"}
	}

	resources := g.catalog.ResourcesForTechnologies(req.SelectedTools)
	if len(resources) == 0 {
		resources = g.catalog.ResourcesForTopics(req.SelectedTools, catalog.DefaultTopicLimit*len(req.SelectedTools))
	}
	if len(resources) == 0 {
		return nil, &InputError{Message: "no catalog resources for " + strings.Join(req.SelectedTools, ", ")}
	}

	total := EstimateWeeks(len(req.SelectedTools), req.HoursPerWeek)
	return &plan{
		req:            req,
		resources:      resources,
		verified:       catalog.NewURLSet(resources),
		totalWeeks:     total,
		detailedWeeks:  DetailedWeeks(total),
		completionDate: g.now().AddDate(0, 0, total*7).Format("2006-01-02"),
	}, nil
}

// attempt runs the first call and, when its output is unusable, one strict retry.
func (g *Generator) attempt(ctx context.Context, log *logger.Logger, p *plan, progress ProgressFunc) (types.Document, int, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}
		strict := attempt > 1
		if strict {
			progress(Progress{Stage: StageRetryStrict, Attempt: attempt})
			log.Warn("retrying with strict prompt", "attempt", attempt, "error", lastErr.Error())
		}

		progress(Progress{Stage: StagePrompt, Attempt: attempt})
		prompt, err := prompts.BuildRoadmapPrompt(prompts.RoadmapInput{
			Profile:        p.req.Profile,
			Technologies:   p.req.SelectedTools,
			HoursPerWeek:   p.req.HoursPerWeek,
			LearningStyle:  p.req.LearningStyle,
			Deadline:       p.req.Deadline,
			Resources:      p.resources,
			DetailedWeeks:  p.detailedWeeks,
			TotalWeeks:     p.totalWeeks,
			CompletionDate: p.completionDate,
			Strict:         strict,
		})
		if err != nil {
			return nil, attempt, err
		}

		progress(Progress{Stage: StageLLMCall, Attempt: attempt})
		text, err := g.gateway.Complete(ctx, llm.Request{
			Prompt:    prompt,
			MaxTokens: g.maxTokens,
			Timeout:   g.timeout,
			Tier:      llm.TierAdvanced,
			Operation: operation,
		})
		if err != nil {
			g.observeGeneration(OutcomeTransport)
			log.Error("roadmap generation failed", "attempt", attempt, "error", err)
			return nil, attempt, err
		}

		progress(Progress{Stage: StageDecode, Attempt: attempt})
		doc, err := Decode(text, attempt)
		if err != nil {
			lastErr = err
			continue
		}

		progress(Progress{Stage: StageValidateStructure, Attempt: attempt})
		result := validation.ValidateStructure(doc, p.verified)
		if !result.OK {
			lastErr = &StructuralError{Attempt: attempt, Errors: result.Errors}
			continue
		}
		return doc, attempt, nil
	}

	var decodeErr *DecodeError
	if errors.As(lastErr, &decodeErr) {
		g.observeGeneration(OutcomeDecode)
	} else {
		g.observeGeneration(OutcomeStructural)
	}
	log.Error("roadmap rejected after strict retry", "error", lastErr)
	return nil, maxAttempts, lastErr
}

// Decode reads a roadmap object out of raw model text, tolerating a fenced
// code block and surrounding prose.
func Decode(text string, attempt int) (types.Document, error) {
	cleaned := llm.CleanJSONBlock(text)
	if cleaned == "" {
		return nil, &DecodeError{Attempt: attempt, Message: "model returned no JSON"}
	}
	var doc types.Document
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &DecodeError{Attempt: attempt, Message: "model output is not a JSON object", Cause: err}
	}
	if doc == nil {
		return nil, &DecodeError{Attempt: attempt, Message: "model returned an empty document"}
	}
	return doc, nil
}

// CacheKey derives the cache key from the inputs that change the roadmap:
// sorted technologies, hours, learning style, experience level and skill count.
func CacheKey(req types.GenerateRequest) (string, error) {
	techs := make([]string, len(req.SelectedTools))
	for i, t := range req.SelectedTools {
		techs[i] = strings.ToLower(strings.TrimSpace(t))
	}
	sort.Strings(techs)

	return cache.Key(operation, struct {
		Technologies []string `json:"technologies"`
		Hours        float64  `json:"hours"`
		Style        string   `json:"style"`
		Level        string   `json:"level"`
		SkillCount   int      `json:"skill_count"`
	}{
		Technologies: techs,
		Hours:        req.HoursPerWeek,
		Style:        req.LearningStyle,
		Level:        string(req.Profile.ExperienceLevel),
		SkillCount:   len(req.Profile.Skills),
	})
}

func cleanTools(tools []string) []string {
	out := make([]string, 0, len(tools))
	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		t = strings.TrimSpace(t)
		k := strings.ToLower(t)
		if t == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

func (g *Generator) observeCache(hit bool) {
	if g.recorder != nil {
		g.recorder.ObserveCacheLookup(hit)
	}
}

func (g *Generator) observeGeneration(outcome string) {
	if g.recorder != nil {
		g.recorder.ObserveGeneration(outcome)
	}
}

func (g *Generator) observeWarnings(n int) {
	if g.recorder != nil {
		g.recorder.ObserveValidationWarnings(n)
	}
}

func (g *Generator) observeRepairs(reason string, n int) {
	if g.recorder != nil && n > 0 {
		g.recorder.ObserveRepairs(reason, n)
	}
}
