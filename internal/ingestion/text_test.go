package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Jane Doe\n  ## Experience\nData Analyst at Acme"
	result := CleanText(input)

	assert.Equal(t, "# Jane Doe\n## Experience\nData Analyst at Acme", result)
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- SQL\n  - PostgreSQL\n* Python\n• Tableau"
	result := CleanText(input)

	assert.Equal(t, "- SQL\n  - PostgreSQL\n* Python\n• Tableau", result)
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces", "Line    with    multiple    spaces", "Line with multiple spaces"},
		{"tabs", "Skills:\tGo\t\tSQL", "Skills: Go SQL"},
		{"non-breaking space", "Senior\u00a0\u00a0Engineer", "Senior Engineer"},
		{"trailing", "Line   \t", "Line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2")

	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")

	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"

	assert.Equal(t, input, CleanText(input))
}

func TestCleanText_Idempotent(t *testing.T) {
	input := "# Title\n\n\n-   item   one\n    plain   text  "
	once := CleanText(input)

	assert.Equal(t, once, CleanText(once))
}

func TestFromText(t *testing.T) {
	extracted := FromText("  Go   developer\n\nfive years  ", "resume.txt")

	assert.Equal(t, "Go developer\n\nfive years", extracted.RawText)
	assert.Equal(t, 4, extracted.WordCount)
	assert.Equal(t, "txt", extracted.FileType)
	assert.Equal(t, "resume.txt", extracted.FileName)
}

func TestReadResume_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.md")
	require.NoError(t, os.WriteFile(path, []byte("# Jane Doe\n\nSkills:  SQL, Python"), 0644))

	extracted, err := ReadResume(path)
	require.NoError(t, err)

	assert.Equal(t, "resume.md", extracted.FileName)
	assert.Equal(t, "# Jane Doe\n\nSkills: SQL, Python", extracted.RawText)
	assert.Equal(t, 6, extracted.WordCount)
}

func TestReadResume_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n\t\n"), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "missing.txt"), "file not found"},
		{"pdf", filepath.Join(dir, "resume.pdf"), "unsupported resume format"},
		{"empty", empty, "contains no text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadResume(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
