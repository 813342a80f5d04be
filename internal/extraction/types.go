package extraction

import (
	"strings"
	"time"
)

// Profile is the structured record extracted from a résumé. Once produced for
// a given input it is not re-derived unless the source text or the prompt
// changes.
type Profile struct {
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	// ExperienceUnparsed marks an experience value the model emitted that
	// could not be read as a number. Scoring treats it as unknown rather
	// than zero years.
	ExperienceUnparsed bool      `json:"experience_unparsed,omitempty"`
	Education          string    `json:"education"`
	Technologies       []string  `json:"technologies,omitempty"`
	JobTitles          []string  `json:"job_titles,omitempty"`
	Error              string    `json:"error,omitempty"`
	ExtractedAt        time.Time `json:"extracted_at"`
}

// Requirement is the structured record extracted from a job posting.
type Requirement struct {
	RequiredSkills     []string  `json:"required_skills"`
	PreferredSkills    []string  `json:"preferred_skills,omitempty"`
	ExperienceYears    float64   `json:"experience_years"`
	ExperienceUnparsed bool      `json:"experience_unparsed,omitempty"`
	Education          string    `json:"education_level"`
	Technologies       []string  `json:"technologies,omitempty"`
	Responsibilities   []string  `json:"responsibilities,omitempty"`
	Error              string    `json:"error,omitempty"`
	ExtractedAt        time.Time `json:"extracted_at"`
}

// dedupe removes duplicate entries while preserving encounter order. Matching
// is case-insensitive; the first spelling wins.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item)
	}
	return result
}
