package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 (555) 123-4567
Skills: Go, Python, Kubernetes • PostgreSQL

Education: BSc Computer Science, State University

Experience: backend engineer at Acme, 2019-2024`

func TestExtractFields_SampleResume(t *testing.T) {
	fields := ExtractFields(sampleResume)

	assert.Equal(t, sampleResume, fields.FullText)
	assert.Equal(t, "Jane Doe", fields.Name)
	assert.Equal(t, "jane.doe@example.com", fields.Email)
	assert.Equal(t, "+1 (555) 123-4567", fields.Phone)
	assert.Equal(t, []string{"Go", "Python", "Kubernetes", "PostgreSQL"}, fields.Skills)
	assert.Equal(t, "BSc Computer Science, State University", fields.Education)
	assert.Equal(t, "backend engineer at Acme, 2019-2024", fields.Experience)
}

func TestExtractFields_MissingSections(t *testing.T) {
	fields := ExtractFields("John Smith\nNo contact details here")

	assert.Equal(t, "John Smith", fields.Name)
	assert.Empty(t, fields.Email)
	assert.Empty(t, fields.Phone)
	assert.NotNil(t, fields.Skills)
	assert.Empty(t, fields.Skills)
	assert.Empty(t, fields.Education)
	assert.Empty(t, fields.Experience)
}

func TestExtractFields_EmptyText(t *testing.T) {
	fields := ExtractFields("")

	assert.Empty(t, fields.Name)
	assert.Empty(t, fields.Skills)
}

func TestExtractSkills_SectionEnds(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"capitalized line", "SKILLS: go, rust\nProjects: none", []string{"go", "rust"}},
		{"lowercase continuation line", "Skills: Go, Rust\nkubernetes\ndocker\n\nOther", []string{"Go", "Rust"}},
		{"bullet continuation line", "Skills: Go\n• Rust\n\nOther", []string{"Go", "Rust"}},
		{"end of text", "skills: sql, bash", []string{"sql", "bash"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSkills(tt.text))
		})
	}
}

func TestExtractFields_LowercaseLineEndsSection(t *testing.T) {
	fields := ExtractFields("Jane Doe\nEducation: BSc Physics\nminor in mathematics\n\nOther")

	assert.Equal(t, "BSc Physics", fields.Education)
}

func TestPhonePattern(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"call 555-123-4567 now", "555-123-4567"},
		{"(555) 123 4567", "(555) 123 4567"},
		{"+44 555 123 4567", "+44 555 123 4567"},
		{"5551234567", "5551234567"},
		{"12-34", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, phonePattern.FindString(tt.input))
		})
	}
}
