package scoring

import (
	"math"
	"testing"

	"github.com/recruitpipe/recruitpipe/internal/extraction"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSkillsScoreIsRequiredCoverage(t *testing.T) {
	got := skillsScore([]string{"python", "sql"}, []string{"python", "java"})
	if !approx(got, 0.5) {
		t.Fatalf("skills score = %v, want 0.5", got)
	}
}

func TestSkillsScoreIgnoresCaseAndExtras(t *testing.T) {
	got := skillsScore([]string{"Python", "SQL"}, []string{"python", "sql", "go", "docker"})
	if !approx(got, 1.0) {
		t.Fatalf("skills score = %v, want 1.0", got)
	}
}

func TestSkillsScoreMissingDataIsNeutral(t *testing.T) {
	if got := skillsScore(nil, []string{"python"}); !approx(got, 0.5) {
		t.Fatalf("no required skills: score = %v, want 0.5", got)
	}
	if got := skillsScore([]string{"python"}, nil); !approx(got, 0.5) {
		t.Fatalf("no candidate skills: score = %v, want 0.5", got)
	}
}

func TestExperienceScoreLadder(t *testing.T) {
	cases := []struct {
		candidate float64
		want      float64
	}{
		{5, 1.0},
		{6, 1.0},
		{3.5, 0.8},
		{2.5, 0.5},
		{1, 0.3},
		{0, 0.3},
	}

	for _, tc := range cases {
		if got := experienceScore(5, tc.candidate); !approx(got, tc.want) {
			t.Errorf("experienceScore(5, %v) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestExperienceScoreUnstatedRequirement(t *testing.T) {
	if got := experienceScore(0, 0); !approx(got, 1.0) {
		t.Fatalf("unstated requirement: score = %v, want 1.0", got)
	}
}

func TestEducationScoreOrdinal(t *testing.T) {
	cases := []struct {
		required  string
		candidate string
		want      float64
	}{
		{"Bachelor's degree", "Master's in CS", 1.0},
		{"Master's degree", "Bachelor's degree", 0.7},
		{"PhD", "Bachelor of Science", 0.4},
		{"Bachelor's degree", "some certificate", 0.7},
		{"high school", "high school diploma", 1.0},
		{"", "Bachelor's", 1.0},
		{"Master's", "", 1.0},
	}

	for _, tc := range cases {
		got := educationScore(tc.required, tc.candidate)
		if !approx(got, tc.want) {
			t.Errorf("educationScore(%q, %q) = %v, want %v", tc.required, tc.candidate, got, tc.want)
		}
	}
}

func TestEducationLevelSubstringTakesMax(t *testing.T) {
	if got := educationLevel("PhD candidate, holds a Master's degree"); got != 5 {
		t.Fatalf("level = %d, want 5", got)
	}
	if got := educationLevel("certified welder"); got != defaultEducationLevel {
		t.Fatalf("unmatched level = %d, want %d", got, defaultEducationLevel)
	}
}

func TestScoreUnparsedExperienceIsNeutral(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	requirement := &extraction.Requirement{
		RequiredSkills:  []string{"go"},
		ExperienceYears: 5,
		Education:       "Bachelor's",
	}
	profile := &extraction.Profile{
		Skills:             []string{"go"},
		ExperienceUnparsed: true,
		Education:          "BSc",
	}

	got := engine.Score(requirement, profile)
	if !approx(got.ExperienceScore, 0.5) {
		t.Errorf("experience score = %v, want 0.5", got.ExperienceScore)
	}

	flagged := &extraction.Requirement{
		RequiredSkills:     []string{"go"},
		ExperienceUnparsed: true,
		Education:          "Bachelor's",
	}
	got = engine.Score(flagged, &extraction.Profile{Skills: []string{"go"}, ExperienceYears: 5, Education: "BSc"})
	if !approx(got.ExperienceScore, 0.5) {
		t.Errorf("experience score with unparsed requirement = %v, want 0.5", got.ExperienceScore)
	}
}

func TestScoreWeightsAndRounding(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	requirement := &extraction.Requirement{
		RequiredSkills:  []string{"python", "sql", "docker"},
		ExperienceYears: 5,
		Education:       "Bachelor's degree",
	}
	profile := &extraction.Profile{
		Skills:          []string{"python", "sql"},
		ExperienceYears: 3.5,
		Education:       "Master of Science",
	}

	got := engine.Score(requirement, profile)

	if !approx(got.SkillsScore, 0.67) {
		t.Errorf("skills score = %v, want 0.67", got.SkillsScore)
	}
	if !approx(got.ExperienceScore, 0.8) {
		t.Errorf("experience score = %v, want 0.8", got.ExperienceScore)
	}
	if !approx(got.EducationScore, 1.0) {
		t.Errorf("education score = %v, want 1.0", got.EducationScore)
	}
	// 2/3*0.5 + 0.8*0.3 + 1.0*0.2 = 0.7733..., rounded to 0.77.
	if !approx(got.OverallScore, 0.77) {
		t.Errorf("overall score = %v, want 0.77", got.OverallScore)
	}
	if got.Category != CategoryGood {
		t.Errorf("category = %q, want %q", got.Category, CategoryGood)
	}
}

func TestScoreNeutralWhenEverythingMissing(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	got := engine.Score(&extraction.Requirement{}, &extraction.Profile{})

	// 0.5*0.5 + 1.0*0.3 + 1.0*0.2 = 0.75.
	if !approx(got.OverallScore, 0.75) {
		t.Fatalf("overall score = %v, want 0.75", got.OverallScore)
	}
	if got.Category != CategoryGood {
		t.Fatalf("category = %q, want %q", got.Category, CategoryGood)
	}
}

func TestCategorizeBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.95, CategoryExcellent},
		{0.81, CategoryExcellent},
		{0.8, CategoryGood},
		{0.61, CategoryGood},
		{0.6, CategoryModerate},
		{0.41, CategoryModerate},
		{0.4, CategoryLow},
		{0, CategoryLow},
	}

	for _, tc := range cases {
		if got := Categorize(tc.score); got != tc.want {
			t.Errorf("Categorize(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
