// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeProfile")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only information present in the text, do not invent details.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ResumeProfileSchema returns the extraction schema for resume analysis.
// The fields mirror types.Profile.
func ResumeProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeProfile",
		Description: `You are an expert technical recruiter. Analyze the resume below and extract the candidate's technical profile.
List every programming language, framework, tool and platform mentioned. Estimate total professional experience in years.`,
		Fields: []SchemaField{
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "All technical skills: languages, frameworks, tools, platforms",
				Required:    true,
			},
			{
				Name:        "years_of_experience",
				Type:        "number",
				Description: "Total years of professional experience",
				Required:    true,
			},
			{
				Name:        "current_role",
				Type:        "\"string\"",
				Description: "Most recent job title",
				Required:    true,
			},
			{
				Name:        "experience_level",
				Type:        "\"Junior|Mid-Level|Senior|Lead\"",
				Description: "Seniority bucket",
				Required:    true,
			},
			{
				Name:        "domains",
				Type:        "[\"string\"]",
				Description: "Domain expertise, e.g. Web Development, Data Science, Cloud",
				Required:    true,
			},
			{
				Name:        "recent_tech",
				Type:        "[\"string\"]",
				Description: "Technologies used in the last two years",
				Required:    true,
			},
			{
				Name:        "top_skills",
				Type:        "[\"string\"]",
				Description: "The five strongest skills",
				Required:    true,
			},
		},
	}
}
