// Package match orchestrates the full candidate-to-job pipeline: load the
// pair, extract structured records, score them, and persist the outcome.
package match

import (
	"sort"
	"time"
)

// Result is one scored candidate/job pairing. Score and category fields
// mirror the scoring rubric output.
type Result struct {
	CandidateID     string    `json:"candidate_id"`
	CandidateName   string    `json:"candidate_name"`
	JobID           string    `json:"job_id"`
	JobTitle        string    `json:"job_title"`
	SkillsScore     float64   `json:"skills_score"`
	ExperienceScore float64   `json:"experience_score"`
	EducationScore  float64   `json:"education_score"`
	OverallScore    float64   `json:"overall_score"`
	Category        string    `json:"category"`
	Timestamp       time.Time `json:"timestamp"`
}

// SortByScore orders results by overall score, best first. Equal scores keep
// their relative order so batch output stays deterministic.
func SortByScore(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OverallScore > results[j].OverallScore
	})
}
