// Package ingestion reads resume text from disk and normalizes it for analysis.
package ingestion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/types"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRuns   = regexp.MustCompile(`\n\n\n+`)
)

// textTypes maps accepted file extensions onto ExtractedText.FileType.
// PDF and DOCX are converted by the upload layer before they reach this package.
var textTypes = map[string]string{
	".txt":      "txt",
	".text":     "txt",
	".md":       "txt",
	".markdown": "txt",
}

// CleanText normalizes line endings, collapses inline whitespace and caps blank
// runs at one empty line. Headings and bullets keep their markers.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses its inner whitespace. Bullet indentation is kept
// so nested lists survive.
func cleanLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}

	body := inlineSpace.ReplaceAllString(strings.TrimSpace(trimmed), " ")
	if isBulletLine(trimmed) {
		if indent := len(line) - len(trimmed); indent > 0 {
			return strings.Repeat(" ", indent) + body
		}
	}
	return body
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// FromText wraps already extracted text.
func FromText(text, fileName string) types.ExtractedText {
	cleaned := CleanText(text)
	return types.ExtractedText{
		RawText:   cleaned,
		WordCount: len(strings.Fields(cleaned)),
		FileType:  "txt",
		FileName:  fileName,
	}
}

// ReadResume reads and cleans a plain-text resume.
func ReadResume(path string) (types.ExtractedText, error) {
	ext := strings.ToLower(filepath.Ext(path))
	fileType, ok := textTypes[ext]
	if !ok {
		return types.ExtractedText{}, fmt.Errorf("unsupported resume format %q: convert it to plain text first", ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.ExtractedText{}, fmt.Errorf("file not found: %w", err)
		}
		return types.ExtractedText{}, fmt.Errorf("failed to read file: %w", err)
	}

	extracted := FromText(string(content), filepath.Base(path))
	extracted.FileType = fileType
	if extracted.WordCount == 0 {
		return extracted, fmt.Errorf("resume %s contains no text", path)
	}
	return extracted, nil
}
