package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[- ]?)?\(?\d{3}\)?[- ]?\d{3}[- ]?\d{4}`)

	// A section runs from its label to the next blank line, the next line
	// starting with a letter of either case, or the end of the text.
	skillsSection     = sectionPattern("skills")
	educationSection  = sectionPattern("education")
	experienceSection = sectionPattern("experience")

	skillSeparators = regexp.MustCompile(`[,\n•·]`)
)

func sectionPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `:?([\s\S]*?)(?:\n\n|\n[A-Z]|$)`)
}

// ExtractFields applies pattern heuristics to resume text.
// The result is never authoritative and any field may be empty.
func ExtractFields(text string) types.ExtractedResumeFields {
	return types.ExtractedResumeFields{
		FullText:   text,
		Name:       firstLine(text),
		Email:      emailPattern.FindString(text),
		Phone:      phonePattern.FindString(text),
		Skills:     extractSkills(text),
		Education:  sectionBody(educationSection, text),
		Experience: sectionBody(experienceSection, text),
	}
}

func extractSkills(text string) []string {
	match := skillsSection.FindStringSubmatch(text)
	if match == nil {
		return []string{}
	}

	skills := []string{}
	for _, skill := range skillSeparators.Split(match[1], -1) {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func sectionBody(pattern *regexp.Regexp, text string) string {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
