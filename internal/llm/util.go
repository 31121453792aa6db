// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock extracts the JSON payload from a model response.
// It strips ```json / ``` fences wherever they appear, then drops any conversational
// preamble before the first '{' or '[' and any text after the matching close.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Bare JSON may itself contain fences inside string values
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return trimTrailing(text)
	}

	if inner, ok := fencedBlock(text); ok {
		text = inner
	}

	if text == "" || text[0] == '{' || text[0] == '[' {
		return trimTrailing(text)
	}

	// Skip preamble: start at the first object or array opener
	idx := strings.IndexAny(text, "{[")
	if idx < 0 {
		return text
	}
	return trimTrailing(text[idx:])
}

// StripFences removes markdown fence lines from a plain-text answer and trims it.
// Text between the fences is kept.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// fencedBlock returns the contents of the first fenced code block in text.
func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]

	// Skip a language identifier on the opening fence line
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
			rest = rest[nl+1:]
		}
	}

	if end := strings.LastIndex(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

func trimTrailing(text string) string {
	switch {
	case strings.HasPrefix(text, "{"):
		if obj := extractJSONObject(text); obj != "" {
			return obj
		}
	case strings.HasPrefix(text, "["):
		if arr := extractJSONArray(text); arr != "" {
			return arr
		}
	}
	return strings.TrimSpace(text)
}

// extractJSONObject returns the balanced object at the start of text, or "".
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced array at the start of text, or "".
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
