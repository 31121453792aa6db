package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt_ResumeProfile(t *testing.T) {
	prompt := BuildExtractionPrompt(ResumeProfileSchema(), "Jane Doe\nSenior Go engineer, 7 years")

	assert.Contains(t, prompt, "expert technical recruiter")
	for _, field := range []string{"skills", "years_of_experience", "current_role", "experience_level", "domains", "recent_tech", "top_skills"} {
		assert.Contains(t, prompt, `"`+field+`"`)
	}
	assert.Contains(t, prompt, "(required)")
	assert.Contains(t, prompt, "Senior Go engineer, 7 years")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}
