package roadmap

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/roadmap-generator/internal/cache"
	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/roadmaptest"
	"github.com/jonathan/roadmap-generator/internal/types"
	"github.com/jonathan/roadmap-generator/internal/validation"
)

type fakeGateway struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests []llm.Request
}

func (f *fakeGateway) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i >= len(f.replies) {
		return "", errors.New("unexpected call")
	}
	return f.replies[i], nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type countingRecorder struct {
	hits, misses int
	outcomes     []string
	warnings     int
	repairs      map[string]int
}

func (r *countingRecorder) ObserveCacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}
func (r *countingRecorder) ObserveGeneration(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *countingRecorder) ObserveValidationWarnings(n int)  { r.warnings += n }
func (r *countingRecorder) ObserveRepairs(reason string, n int) {
	if r.repairs == nil {
		r.repairs = map[string]int{}
	}
	r.repairs[reason] += n
}

var fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func sampleRequest() types.GenerateRequest {
	return types.GenerateRequest{
		Profile: types.Profile{
			Skills:            []string{"Python", "SQL"},
			YearsOfExperience: 3,
			CurrentRole:       "Data Analyst",
			ExperienceLevel:   types.LevelMid,
		},
		SelectedTools: []string{"React", "Node.js"},
		HoursPerWeek:  10,
	}
}

func requestResources(t *testing.T) []types.Resource {
	t.Helper()
	return catalog.MustDefault().ResourcesForTechnologies([]string{"React", "Node.js"})
}

func validReply(t *testing.T) string {
	doc := roadmaptest.Document(requestResources(t), roadmaptest.Options{TotalWeeks: 5, HoursPerWeek: 10})
	return "Here is your roadmap:\n```json\n" + roadmaptest.JSON(doc) + "\n```\nGood luck!"
}

func newTestGenerator(gw llm.Gateway, opts ...Option) *Generator {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewGenerator(gw, catalog.MustDefault(), opts...)
}

func TestGenerate_FirstAttemptSucceeds(t *testing.T) {
	gw := &fakeGateway{replies: []string{validReply(t)}}
	rec := &countingRecorder{}
	var stages []Stage

	result, err := newTestGenerator(gw, WithRecorder(rec)).Generate(context.Background(), sampleRequest(), func(p Progress) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 5, result.TotalWeeks)
	assert.Equal(t, 4, result.DetailedWeeks)
	assert.False(t, result.FromCache)
	assert.NotEmpty(t, result.GenerationID)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{OutcomeOK}, rec.outcomes)
	assert.Equal(t, 1, rec.misses)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, llm.TierAdvanced, req.Tier)
	assert.Equal(t, DefaultTimeout, req.Timeout)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	assert.Contains(t, req.Prompt, "finishing around 2026-11-22")
	assert.NotContains(t, req.Prompt, "STRICT REQUIREMENTS")

	assert.Equal(t, []Stage{
		StageBuildInputs, StagePrompt, StageLLMCall, StageDecode, StageValidateStructure,
		StageValidateContent, StageRepair, StageComplete,
	}, stages)
}

func TestGenerate_StrictRetryAfterDecodeFailure(t *testing.T) {
	gw := &fakeGateway{replies: []string{"I cannot produce JSON today.", validReply(t)}}
	rec := &countingRecorder{}
	var stages []Stage

	result, err := newTestGenerator(gw, WithRecorder(rec)).Generate(context.Background(), sampleRequest(), func(p Progress) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	require.Len(t, gw.requests, 2)
	assert.NotContains(t, gw.requests[0].Prompt, "STRICT REQUIREMENTS")
	assert.Contains(t, gw.requests[1].Prompt, "STRICT REQUIREMENTS")
	assert.Contains(t, stages, StageRetryStrict)
}

func TestGenerate_StructuralFailureTwiceIsFatal(t *testing.T) {
	doc := roadmaptest.Document(requestResources(t), roadmaptest.Options{TotalWeeks: 5, HoursPerWeek: 10})
	delete(roadmaptest.Week(doc, 1), "daily_plans")
	bad := roadmaptest.JSON(doc)

	gw := &fakeGateway{replies: []string{bad, bad, validReply(t)}}
	rec := &countingRecorder{}

	_, err := newTestGenerator(gw, WithRecorder(rec)).Generate(context.Background(), sampleRequest(), nil)
	require.Error(t, err)

	var structErr *StructuralError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, 2, structErr.Attempt)
	assert.Contains(t, structErr.Errors, "Week 2: must have either daily_plans or main_topics/key_resource")
	assert.Equal(t, 2, gw.calls())
	assert.Equal(t, []string{OutcomeStructural}, rec.outcomes)
}

func TestGenerate_NullTopicsWeekIsRetried(t *testing.T) {
	doc := roadmaptest.Document(requestResources(t), roadmaptest.Options{TotalWeeks: 5, HoursPerWeek: 10})
	week := roadmaptest.Week(doc, 4)
	delete(week, "key_resource")
	week["main_topics"] = nil

	gw := &fakeGateway{replies: []string{roadmaptest.JSON(doc), validReply(t)}}

	result, err := newTestGenerator(gw).Generate(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	assert.Contains(t, gw.requests[1].Prompt, "STRICT REQUIREMENTS")

	delivered := result.Roadmap["weekly_plans"].([]any)[4].(map[string]any)
	assert.NotEmpty(t, delivered["main_topics"])
}

func TestGenerate_DecodeFailureTwiceIsFatal(t *testing.T) {
	gw := &fakeGateway{replies: []string{"nope", "[1, 2, 3]"}}

	_, err := newTestGenerator(gw).Generate(context.Background(), sampleRequest(), nil)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 2, decodeErr.Attempt)
	assert.Equal(t, 2, gw.calls())
}

func TestGenerate_TransportErrorsPropagate(t *testing.T) {
	for _, kind := range []llm.ErrorKind{llm.KindAuth, llm.KindRateLimited, llm.KindTimeout, llm.KindGeneric} {
		t.Run(string(kind), func(t *testing.T) {
			upstream := &llm.Error{Kind: kind, Message: "upstream"}
			gw := &fakeGateway{errs: []error{upstream}, replies: []string{"", validReply(t)}}
			rec := &countingRecorder{}

			_, err := newTestGenerator(gw, WithRecorder(rec)).Generate(context.Background(), sampleRequest(), nil)
			require.Error(t, err)
			assert.Same(t, upstream, err)
			assert.True(t, llm.IsKind(err, kind))
			assert.Equal(t, 1, gw.calls())
			assert.Equal(t, []string{OutcomeTransport}, rec.outcomes)
		})
	}
}

func TestGenerate_TransportErrorOnStrictRetryPropagates(t *testing.T) {
	upstream := &llm.Error{Kind: llm.KindTimeout, Message: "slow"}
	gw := &fakeGateway{replies: []string{"garbage"}, errs: []error{nil, upstream}}

	_, err := newTestGenerator(gw).Generate(context.Background(), sampleRequest(), nil)
	assert.Same(t, upstream, err)
	assert.Equal(t, 2, gw.calls())
}

func TestGenerate_CacheHitSkipsGateway(t *testing.T) {
	gw := &fakeGateway{replies: []string{validReply(t)}}
	rec := &countingRecorder{}
	store := cache.NewMemory[types.Document]()
	g := newTestGenerator(gw, WithCache(store), WithRecorder(rec))

	first, err := g.Generate(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)

	// same normalized key: tool order and case differ
	req := sampleRequest()
	req.SelectedTools = []string{"node.js", "React"}
	var stages []Stage
	second, err := g.Generate(context.Background(), req, func(p Progress) { stages = append(stages, p.Stage) })
	require.NoError(t, err)

	assert.Equal(t, 1, gw.calls())
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Roadmap, second.Roadmap)
	assert.Equal(t, []Stage{StageBuildInputs, StageCacheHit, StageComplete}, stages)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, []string{OutcomeOK, OutcomeCached}, rec.outcomes)

	// mutating a returned roadmap must not leak into the cache
	second.Roadmap["career_insights"] = "changed"
	third, err := g.Generate(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, first.Roadmap["career_insights"], third.Roadmap["career_insights"])
}

func TestGenerate_CacheExpiry(t *testing.T) {
	now := fixedNow
	store := cache.NewMemory[types.Document](cache.WithClock[types.Document](func() time.Time { return now }))
	gw := &fakeGateway{replies: []string{validReply(t), validReply(t)}}
	g := newTestGenerator(gw, WithCache(store))

	_, err := g.Generate(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)

	now = now.Add(cache.DefaultTTL + time.Second)
	result, err := g.Generate(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, gw.calls())
}

func TestGenerate_RepairsAndWarns(t *testing.T) {
	resources := requestResources(t)
	verified := catalog.NewURLSet(resources)
	doc := roadmaptest.Document(resources, roadmaptest.Options{TotalWeeks: 5, HoursPerWeek: 10})
	// verified but mislabelled: structurally fine, resynced by repair
	roadmaptest.DayResource(doc, 0, 0)["title"] = "Some other title"
	// duplicate day numbers: a content warning, renumbered by repair
	roadmaptest.Day(doc, 1, 1)["day"] = float64(1)

	gw := &fakeGateway{replies: []string{roadmaptest.JSON(doc)}}
	rec := &countingRecorder{}

	result, err := newTestGenerator(gw, WithRecorder(rec)).Generate(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)

	assert.Contains(t, result.Warnings, "Week 2: missing day(s) 2")
	assert.Equal(t, len(result.Warnings), rec.warnings)
	assert.Equal(t, 2, rec.repairs["incomplete"])

	assert.Equal(t, resources[0].Title, roadmaptest.DayResource(result.Roadmap, 0, 0)["title"])
	assert.True(t, validation.ValidateStructure(result.Roadmap, verified).OK)
	assert.Empty(t, validation.ValidateContent(result.Roadmap, 10))
}

func TestGenerate_InputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.GenerateRequest)
		want   string
	}{
		{name: "no tools", mutate: func(r *types.GenerateRequest) { r.SelectedTools = []string{" "} }, want: "at least one technology"},
		{name: "no hours", mutate: func(r *types.GenerateRequest) { r.HoursPerWeek = 0 }, want: "hours per week"},
		{name: "unknown tools", mutate: func(r *types.GenerateRequest) { r.SelectedTools = []string{"COBOL-on-Mars"} }, want: "no catalog resources"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest()
			tt.mutate(&req)
			gw := &fakeGateway{}

			_, err := newTestGenerator(gw).Generate(context.Background(), req, nil)
			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Contains(t, err.Error(), tt.want)
			assert.Zero(t, gw.calls())
		})
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw := &fakeGateway{replies: []string{validReply(t)}}

	_, err := newTestGenerator(gw).Generate(ctx, sampleRequest(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, gw.calls())
}

func TestGenerate_CustomBudget(t *testing.T) {
	gw := &fakeGateway{replies: []string{validReply(t)}}
	_, err := newTestGenerator(gw, WithTimeout(time.Minute), WithMaxTokens(1234)).Generate(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, gw.requests[0].Timeout)
	assert.Equal(t, 1234, gw.requests[0].MaxTokens)
}

func TestCacheKey(t *testing.T) {
	base := sampleRequest()
	base.ApplyDefaults()
	key, err := CacheKey(base)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "generate_roadmap:"))

	reordered := base
	reordered.SelectedTools = []string{"Node.js", "react"}
	k2, err := CacheKey(reordered)
	require.NoError(t, err)
	assert.Equal(t, key, k2)

	otherRole := base
	otherRole.Profile.CurrentRole = "Designer"
	k3, _ := CacheKey(otherRole)
	assert.Equal(t, key, k3, "role does not shape the cache key")

	moreHours := base
	moreHours.HoursPerWeek = 12
	k4, _ := CacheKey(moreHours)
	assert.NotEqual(t, key, k4)

	senior := base
	senior.Profile.ExperienceLevel = types.LevelSenior
	k5, _ := CacheKey(senior)
	assert.NotEqual(t, key, k5)
}

func TestDecode(t *testing.T) {
	doc, err := Decode("```json\n{\"weekly_plans\": []}\n```", 1)
	require.NoError(t, err)
	assert.Contains(t, doc, "weekly_plans")

	_, err = Decode("", 1)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)

	_, err = Decode("null", 2)
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 2, decodeErr.Attempt)
}

func TestStructuralError_Message(t *testing.T) {
	err := &StructuralError{Attempt: 2, Errors: []string{"a", "b", "c", "d"}}
	assert.Equal(t, "roadmap structural error (attempt 2): 4 violation(s): a; b; c; ...", err.Error())
}
