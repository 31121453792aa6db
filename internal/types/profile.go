// Package types provides type definitions for structured data used throughout the roadmap generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ExperienceLevel is the seniority bucket inferred from a resume
type ExperienceLevel string

// Experience levels recognised in a Profile
const (
	LevelJunior  ExperienceLevel = "Junior"
	LevelMid     ExperienceLevel = "Mid-Level"
	LevelSenior  ExperienceLevel = "Senior"
	LevelLead    ExperienceLevel = "Lead"
	LevelUnknown ExperienceLevel = "Unknown"
)

// ParseExperienceLevel maps free-form model output onto a known level.
// Anything unrecognised becomes LevelUnknown.
func ParseExperienceLevel(s string) ExperienceLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "junior", "entry", "entry-level", "entry level":
		return LevelJunior
	case "mid", "mid-level", "mid level", "intermediate":
		return LevelMid
	case "senior":
		return LevelSenior
	case "lead", "principal", "staff":
		return LevelLead
	default:
		return LevelUnknown
	}
}

// Profile is the structured summary of a candidate produced by resume analysis
type Profile struct {
	Skills            []string        `json:"skills"`
	YearsOfExperience float64         `json:"years_of_experience" validate:"gte=0,lte=70"`
	CurrentRole       string          `json:"current_role"`
	ExperienceLevel   ExperienceLevel `json:"experience_level"`
	Domains           []string        `json:"domains"`
	RecentTech        []string        `json:"recent_tech"`
	TopSkills         []string        `json:"top_skills"`
}

// Normalize fills defaults for fields the model left out.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Domains == nil {
		p.Domains = []string{}
	}
	if p.RecentTech == nil {
		p.RecentTech = []string{}
	}
	if p.TopSkills == nil {
		p.TopSkills = []string{}
	}
	if p.YearsOfExperience < 0 {
		p.YearsOfExperience = 0
	}
	p.ExperienceLevel = ParseExperienceLevel(string(p.ExperienceLevel))
}

// ExtractedText is the cleaned text handed over by the upload layer
type ExtractedText struct {
	RawText   string `json:"raw_text"`
	WordCount int    `json:"word_count"`
	FileType  string `json:"file_type"` // pdf, docx or txt
	FileName  string `json:"file_name"`
}
