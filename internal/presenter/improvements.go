// Package presenter turns pipeline snapshots into what the user sees: the
// artifact regions, the improvements list and the copy/download actions.
package presenter

// improvementThreshold is the artifact length (in characters) above which
// improvements are listed.
const improvementThreshold = 100

var improvements = []string{
	"Restructured resume sections to highlight relevant experience",
	"Added keywords from job description to improve ATS matching",
	"Quantified achievements with metrics where possible",
	"Standardized formatting for better readability",
	"Prioritized skills mentioned in the job description",
	"Optimized section ordering based on job requirements",
	"Enhanced professional summary to target the specific role",
}

// DeriveImprovements returns the improvements summary for an artifact. The
// list is fixed and ordered; it is empty until the artifact is longer than
// 100 characters.
func DeriveImprovements(text string) []string {
	if len([]rune(text)) <= improvementThreshold {
		return []string{}
	}
	out := make([]string, len(improvements))
	copy(out, improvements)
	return out
}
