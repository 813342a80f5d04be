// Package scoring computes deterministic compatibility scores between a
// structured job requirement and a structured candidate profile. The engine
// is pure: no I/O, no clock, no randomness.
package scoring

import (
	"math"
	"strings"

	"github.com/recruitpipe/recruitpipe/internal/extraction"
)

// Weights holds the per-dimension contribution to the overall score. The
// defaults sum to 1.0.
type Weights struct {
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
}

// Config carries the scoring rubric. The zero value is unusable; use
// DefaultConfig and override selectively.
type Config struct {
	Weights Weights
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Skills:     0.5,
			Experience: 0.3,
			Education:  0.2,
		},
	}
}

// Result holds the per-dimension and overall scores for one pair, each
// rounded to two decimals and within [0,1].
type Result struct {
	SkillsScore     float64 `json:"skills_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	OverallScore    float64 `json:"overall_score"`
	Category        string  `json:"category"`
}

// Category labels derived from the overall score.
const (
	CategoryExcellent = "Excellent Match"
	CategoryGood      = "Good Match"
	CategoryModerate  = "Moderate Match"
	CategoryLow       = "Low Match"
)

// educationLevels ranks free-text education descriptions on a fixed ordinal
// scale. Matching is case-insensitive substring; the highest matching level
// wins; unmatched text defaults to 2.
var educationLevels = map[string]int{
	"high school":   1,
	"diploma":       2,
	"associate":     2,
	"bachelor":      3,
	"bachelor's":    3,
	"undergraduate": 3,
	"master":        4,
	"master's":      4,
	"phd":           5,
	"doctorate":     5,
}

const defaultEducationLevel = 2

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Score computes the weighted match between a job requirement and a
// candidate profile.
func (e *Engine) Score(requirement *extraction.Requirement, profile *extraction.Profile) Result {
	skills := skillsScore(requirement.RequiredSkills, profile.Skills)
	experience := experienceScore(requirement.ExperienceYears, profile.ExperienceYears)
	// A stated but non-numeric experience value on either side scores the
	// neutral midpoint instead of reading as zero years.
	if requirement.ExperienceUnparsed || profile.ExperienceUnparsed {
		experience = 0.5
	}
	education := educationScore(requirement.Education, profile.Education)

	overall := skills*e.cfg.Weights.Skills +
		experience*e.cfg.Weights.Experience +
		education*e.cfg.Weights.Education

	return Result{
		SkillsScore:     round2(skills),
		ExperienceScore: round2(experience),
		EducationScore:  round2(education),
		OverallScore:    round2(overall),
		Category:        Categorize(round2(overall)),
	}
}

// Categorize maps an overall score onto its label. Band lower bounds are
// exclusive: exactly 0.8 is a Good Match, not Excellent.
func Categorize(score float64) string {
	switch {
	case score > 0.8:
		return CategoryExcellent
	case score > 0.6:
		return CategoryGood
	case score > 0.4:
		return CategoryModerate
	default:
		return CategoryLow
	}
}

// skillsScore is the ratio of required skill tokens found among the
// candidate's tokens. Missing data on either side scores a neutral 0.5
// rather than zero. Candidate tokens outside the required set carry no
// penalty.
func skillsScore(required, candidate []string) float64 {
	if len(required) == 0 || len(candidate) == 0 {
		return 0.5
	}

	requiredTokens := tokenize(required)
	if len(requiredTokens) == 0 {
		return 0.5
	}
	candidateTokens := tokenize(candidate)

	matches := 0
	for token := range requiredTokens {
		if candidateTokens[token] {
			matches++
		}
	}

	return float64(matches) / float64(len(requiredTokens))
}

// tokenize lowercases and whitespace-splits the joined skill list into a set.
func tokenize(skills []string) map[string]bool {
	joined := strings.ToLower(strings.Join(skills, " "))

	tokens := make(map[string]bool)
	for _, token := range strings.Fields(joined) {
		tokens[token] = true
	}
	return tokens
}

// experienceScore ladders candidate years against required years. A zero
// requirement is treated as unstated and never penalizes.
func experienceScore(required, candidate float64) float64 {
	if required <= 0 {
		return 1.0
	}

	switch {
	case candidate >= required:
		return 1.0
	case candidate >= required*0.7:
		return 0.8
	case candidate >= required*0.5:
		return 0.5
	default:
		return 0.3
	}
}

// educationScore compares both levels on the ordinal scale. Missing text on
// either side is neutral.
func educationScore(required, candidate string) float64 {
	if strings.TrimSpace(required) == "" || strings.TrimSpace(candidate) == "" {
		return 1.0
	}

	requiredLevel := educationLevel(required)
	candidateLevel := educationLevel(candidate)

	switch {
	case candidateLevel >= requiredLevel:
		return 1.0
	case candidateLevel == requiredLevel-1:
		return 0.7
	default:
		return 0.4
	}
}

func educationLevel(text string) int {
	lower := strings.ToLower(text)

	level := 0
	for key, value := range educationLevels {
		if strings.Contains(lower, key) && value > level {
			level = value
		}
	}

	if level == 0 {
		return defaultEducationLevel
	}
	return level
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
