package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/completion"
)

type fakeCompleter struct {
	response    string
	err         error
	lastRequest completion.Request
	calls       int
}

func (f *fakeCompleter) Complete(_ context.Context, req completion.Request) (*completion.Completion, error) {
	f.calls++
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &completion.Completion{Content: f.response}, nil
}

func TestExtractorProfile(t *testing.T) {
	fake := &fakeCompleter{response: `{"skills": ["Python"], "experience_years": 2, "education": "BSc"}`}
	extractor := New(fake, zap.NewNop(), 0)

	profile := extractor.Profile(context.Background(), "resume text", "Jordan Smith", false)

	if profile.Error != "" {
		t.Fatalf("unexpected error: %q", profile.Error)
	}
	if len(profile.Skills) != 1 || profile.Skills[0] != "Python" {
		t.Fatalf("unexpected skills: %v", profile.Skills)
	}
	if profile.ExtractedAt.IsZero() {
		t.Fatal("expected extraction timestamp")
	}

	prompt := fake.lastRequest.Messages[1].Content
	if !strings.Contains(prompt, "Jordan Smith") {
		t.Fatalf("expected candidate name in prompt, got: %s", prompt)
	}
	if !strings.Contains(prompt, "resume text") {
		t.Fatalf("expected resume text in prompt, got: %s", prompt)
	}
	if fake.lastRequest.Messages[0].Role != completion.RoleSystem {
		t.Fatal("expected a system message first")
	}
}

func TestExtractorProfileCompletionFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("daily quota reached and no cached response available")}
	extractor := New(fake, zap.NewNop(), 0)

	profile := extractor.Profile(context.Background(), "text", "name", false)

	if profile.Error == "" {
		t.Fatal("expected error annotation")
	}
	if profile.Skills == nil || len(profile.Skills) != 0 {
		t.Fatalf("expected empty skills on failure, got %v", profile.Skills)
	}
	if profile.ExtractedAt.IsZero() {
		t.Fatal("expected timestamp even on failure")
	}
}

func TestExtractorProfileUnparsableOutput(t *testing.T) {
	fake := &fakeCompleter{response: "sorry, I cannot help with that"}
	extractor := New(fake, zap.NewNop(), 0)

	profile := extractor.Profile(context.Background(), "text", "name", false)

	if profile.Error == "" {
		t.Fatal("expected error annotation on unparsable output")
	}
	if profile.ExperienceYears != 0 || profile.Education != "" {
		t.Fatalf("expected zeroed record, got %+v", profile)
	}
}

func TestExtractorRequirementForceCachePropagated(t *testing.T) {
	fake := &fakeCompleter{response: `{"required_skills": ["Go"], "experience_years": 3, "education_level": "Bachelor's"}`}
	extractor := New(fake, zap.NewNop(), 0)

	requirement := extractor.Requirement(context.Background(), "description", "Backend Engineer", true)

	if requirement.Error != "" {
		t.Fatalf("unexpected error: %q", requirement.Error)
	}
	if !fake.lastRequest.ForceCache {
		t.Fatal("expected force_cache to propagate to the completion request")
	}
	if !strings.Contains(fake.lastRequest.Messages[1].Content, "'Backend Engineer'") {
		t.Fatal("expected job title in prompt")
	}
}
