package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	result := CleanText("Line    with \t multiple spaces   ")

	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2")

	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_BlankLinesWithSpaces(t *testing.T) {
	result := CleanText("Skills: Go\n   \n  \t\nEducation: BSc")

	assert.Equal(t, "Skills: Go\n\nEducation: BSc", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")

	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Jane   Doe\n\n\nSkills:   Go"
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	result := CleanText("Zürich • Go • Kubernetes 🚀")

	assert.Equal(t, "Zürich • Go • Kubernetes 🚀", result)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Jane Doe", firstLine("\n  \n  Jane Doe  \nEngineer"))
	assert.Equal(t, "", firstLine("   "))
}
