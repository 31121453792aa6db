package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/roadmap-generator/internal/cache"
	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/types"
)

type stubGateway struct {
	reply    string
	err      error
	requests []llm.Request
}

func (s *stubGateway) Complete(_ context.Context, req llm.Request) (string, error) {
	s.requests = append(s.requests, req)
	return s.reply, s.err
}

const profileReply = "```json\n" + `{
  "skills": ["golang", "Python", "k8s", "python", ""],
  "years_of_experience": "6+ years",
  "current_role": " Backend Engineer ",
  "experience_level": "senior",
  "domains": ["Cloud"],
  "recent_tech": ["Docker"]
}` + "\n```"

func TestAnalyzeResume(t *testing.T) {
	gw := &stubGateway{reply: profileReply}
	a := NewAnalyzer(gw, catalog.MustDefault())

	profile, err := a.AnalyzeResume(context.Background(), "Jane Doe\nBackend engineer with Go and Kubernetes")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Python", "Kubernetes"}, profile.Skills)
	assert.Equal(t, 6.0, profile.YearsOfExperience)
	assert.Equal(t, "Backend Engineer", profile.CurrentRole)
	assert.Equal(t, types.LevelSenior, profile.ExperienceLevel)
	assert.Equal(t, []string{"Cloud"}, profile.Domains)
	assert.Equal(t, []string{}, profile.TopSkills)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, llm.TierStandard, req.Tier)
	assert.Equal(t, profileMaxTokens, req.MaxTokens)
	assert.Equal(t, DefaultTimeout, req.Timeout)
	assert.Contains(t, req.Prompt, "Backend engineer with Go and Kubernetes")
}

func TestAnalyzeResume_Defaults(t *testing.T) {
	gw := &stubGateway{reply: `{"experience_level": "wizard"}`}
	profile, err := NewAnalyzer(gw, catalog.MustDefault()).AnalyzeResume(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, types.LevelUnknown, profile.ExperienceLevel)
	assert.Zero(t, profile.YearsOfExperience)
	assert.Equal(t, []string{}, profile.Skills)
}

func TestAnalyzeResume_Errors(t *testing.T) {
	a := NewAnalyzer(&stubGateway{}, catalog.MustDefault())
	_, err := a.AnalyzeResume(context.Background(), "   ")
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)

	upstream := &llm.Error{Kind: llm.KindAuth, Message: "bad key"}
	_, err = NewAnalyzer(&stubGateway{err: upstream}, catalog.MustDefault()).AnalyzeResume(context.Background(), "text")
	assert.Same(t, upstream, err)

	_, err = NewAnalyzer(&stubGateway{reply: "no json here"}, catalog.MustDefault()).AnalyzeResume(context.Background(), "text")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)

	_, err = NewAnalyzer(&stubGateway{reply: `{"skills": "Go"}`}, catalog.MustDefault()).AnalyzeResume(context.Background(), "text")
	assert.ErrorAs(t, err, &parseErr)
}

func TestAnalyzeResume_TruncatesAndCaches(t *testing.T) {
	gw := &stubGateway{reply: profileReply}
	store := cache.NewMemory[types.Profile]()
	a := NewAnalyzer(gw, catalog.MustDefault(), WithProfileCache(store))

	long := strings.Repeat("x", MaxResumeChars+500)
	_, err := a.AnalyzeResume(context.Background(), long)
	require.NoError(t, err)
	assert.NotContains(t, gw.requests[0].Prompt, strings.Repeat("x", MaxResumeChars+1))

	_, err = a.AnalyzeResume(context.Background(), long)
	require.NoError(t, err)
	assert.Len(t, gw.requests, 1)
}

const recommendReply = `Sure! {"recommendations": [
  {"domain": "Cloud Native", "reason": "builds on Go", "difficulty": "Moderate", "market_demand": "High",
   "key_tools": [{"name": "Docker", "description": "containers", "learning_time_weeks": 2},
                 {"name": "Terraform", "description": "IaC", "learning_time_weeks": 3},
                 {"name": "k8s", "description": "orchestration", "learning_time_weeks": 4}]},
  {"domain": "Data Engineering"}
]}`

func TestRecommendDomains(t *testing.T) {
	gw := &stubGateway{reply: recommendReply}
	store := cache.NewMemory[[]types.DomainRecommendation]()
	a := NewAnalyzer(gw, catalog.MustDefault(), WithRecommendationCache(store))
	profile := types.Profile{Skills: []string{"Go"}, ExperienceLevel: types.LevelSenior, YearsOfExperience: 6}

	recs, err := a.RecommendDomains(context.Background(), profile)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	cloud := recs[0]
	assert.Equal(t, "Cloud Native", cloud.Domain)
	require.Len(t, cloud.KeyTools, 3)
	assert.True(t, cloud.KeyTools[0].InCatalog)
	assert.False(t, cloud.KeyTools[1].InCatalog)
	assert.True(t, cloud.KeyTools[2].InCatalog, "aliases resolve before the catalog lookup")
	assert.Equal(t, 2.0, cloud.KeyTools[0].LearningTimeWeeks)
	assert.Equal(t, []types.KeyTool{}, recs[1].KeyTools)

	assert.Contains(t, gw.requests[0].Prompt, "Docker")

	_, err = a.RecommendDomains(context.Background(), profile)
	require.NoError(t, err)
	assert.Len(t, gw.requests, 1)
}

func TestRecommendDomains_MissingList(t *testing.T) {
	recs, err := NewAnalyzer(&stubGateway{reply: `{}`}, catalog.MustDefault()).RecommendDomains(context.Background(), types.Profile{})
	require.NoError(t, err)
	assert.Equal(t, []types.DomainRecommendation{}, recs)
}

func TestRecommendDomains_Errors(t *testing.T) {
	_, err := NewAnalyzer(&stubGateway{err: errors.New("boom")}, catalog.MustDefault()).RecommendDomains(context.Background(), types.Profile{})
	assert.EqualError(t, err, "boom")

	_, err = NewAnalyzer(&stubGateway{reply: `{"recommendations": [{"reason": "no domain"}]}`}, catalog.MustDefault()).
		RecommendDomains(context.Background(), types.Profile{})
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
