package extraction

import (
	"strings"
	"testing"
	"time"
)

const sampleResume = `Jordan Smith
jordan.smith@example.com | +1 (555) 123-4567
linkedin.com/in/jordansmith | github.com/jsmith | https://jordansmith.dev

Skills:
- Python, Django, PostgreSQL
- Docker, Kubernetes

Experience:
Senior Software Engineer at Initech Technologies
2019 - Present
- Led migration to containerized deployments
- Mentored four junior engineers
Software Engineer at Acme Solutions
2015 - 2019
- Built internal billing services

Education:
B.S. in Computer Science, State University, 2011 - 2015, GPA: 3.8/4.0
`

func TestParseResumeContact(t *testing.T) {
	resume := ParseResume(sampleResume)

	if resume.Contact.Email != "jordan.smith@example.com" {
		t.Fatalf("unexpected email: %q", resume.Contact.Email)
	}
	if resume.Contact.Phone == "" {
		t.Fatal("expected a phone number")
	}
	if resume.Contact.LinkedIn != "linkedin.com/in/jordansmith" {
		t.Fatalf("unexpected linkedin: %q", resume.Contact.LinkedIn)
	}
	if resume.Contact.GitHub != "github.com/jsmith" {
		t.Fatalf("unexpected github: %q", resume.Contact.GitHub)
	}
	if resume.Contact.Website != "https://jordansmith.dev" {
		t.Fatalf("unexpected website: %q", resume.Contact.Website)
	}
}

func TestParseResumeSkills(t *testing.T) {
	resume := ParseResume(sampleResume)

	want := map[string]bool{}
	for _, s := range resume.Skills {
		want[s] = true
	}
	for _, s := range []string{"Python", "Django", "PostgreSQL", "Docker", "Kubernetes"} {
		if !want[s] {
			t.Fatalf("expected skill %q in %v", s, resume.Skills)
		}
	}
}

func TestParseResumeSkillsFallbackScan(t *testing.T) {
	text := "I have worked extensively with Go, Docker and PostgreSQL over the years."
	resume := ParseResume(text)

	found := map[string]bool{}
	for _, s := range resume.Skills {
		found[s] = true
	}
	if !found["Go"] || !found["Docker"] || !found["PostgreSQL"] {
		t.Fatalf("expected known-skill scan to find Go/Docker/PostgreSQL, got %v", resume.Skills)
	}
}

func TestParseResumeExperience(t *testing.T) {
	resume := ParseResume(sampleResume)

	if len(resume.Experience) < 2 {
		t.Fatalf("expected at least 2 experience entries, got %d", len(resume.Experience))
	}

	first := resume.Experience[0]
	if first.Title == "" {
		t.Fatal("expected a job title")
	}
	if !strings.Contains(first.Company, "Initech Technologies") {
		t.Fatalf("unexpected company: %q", first.Company)
	}
	if len(first.Responsibilities) == 0 {
		t.Fatal("expected responsibilities from bullet lines")
	}
	if first.DateRange != "2019 - Present" {
		t.Fatalf("unexpected date range: %q", first.DateRange)
	}
}

func TestParseResumeEducation(t *testing.T) {
	resume := ParseResume(sampleResume)

	if len(resume.Education) == 0 {
		t.Fatal("expected an education entry")
	}

	entry := resume.Education[0]
	if entry.Degree == "" {
		t.Fatalf("expected a degree, got %+v", entry)
	}
	if entry.University != "State University" {
		t.Fatalf("unexpected university: %q", entry.University)
	}
	if entry.GPA != "3.8/4.0" {
		t.Fatalf("unexpected gpa: %q", entry.GPA)
	}
}

func TestParseResumeDeterministic(t *testing.T) {
	a := ParseResume(sampleResume)
	b := ParseResume(sampleResume)

	if len(a.Skills) != len(b.Skills) || len(a.Experience) != len(b.Experience) {
		t.Fatal("offline extraction must be deterministic")
	}
	for i := range a.Skills {
		if a.Skills[i] != b.Skills[i] {
			t.Fatalf("skill order changed between runs: %v vs %v", a.Skills, b.Skills)
		}
	}
}

func TestResumeProfileConversion(t *testing.T) {
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	profile := ParseResume(sampleResume).Profile(ref)

	// Employment spans 2015 through "Present" (2025 by the reference clock).
	if profile.ExperienceYears != 10 {
		t.Fatalf("expected 10 years of estimated experience, got %v", profile.ExperienceYears)
	}
	if len(profile.JobTitles) == 0 {
		t.Fatal("expected job titles")
	}
	if profile.Education == "" {
		t.Fatal("expected an education label")
	}
	if !profile.ExtractedAt.Equal(ref) {
		t.Fatalf("unexpected timestamp: %v", profile.ExtractedAt)
	}
}
