package extraction

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/completion"
	"github.com/recruitpipe/recruitpipe/internal/logger"
)

//go:embed prompt_profile.md
var profilePromptTemplate string

//go:embed prompt_requirement.md
var requirementPromptTemplate string

const (
	systemPrompt = "You are an expert HR recruiter. Extract key information from CVs and job descriptions."

	extractionTemperature = 0.3
	extractionMaxTokens   = 1024

	defaultMaxLogLength = 200
)

// Completer is the completion service surface the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (*completion.Completion, error)
}

// Extractor turns free text into structured records through the completion
// service, degrading to regex parsing when the model output is not valid
// JSON. It never returns an error across its boundary: failures surface as a
// zeroed record with the Error field set.
type Extractor struct {
	completer Completer
	logger    *zap.Logger
	maxLogLen int

	now func() time.Time
}

func New(completer Completer, log *zap.Logger, maxLogLength int) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		completer: completer,
		logger:    log,
		maxLogLen: maxLogLength,
		now:       time.Now,
	}
}

// Profile extracts a structured candidate record from résumé text.
func (e *Extractor) Profile(ctx context.Context, resumeText, candidateName string, forceCache bool) *Profile {
	content, errMsg := e.complete(ctx, profilePromptTemplate, candidateName, resumeText, forceCache)
	if errMsg != "" {
		return &Profile{
			Skills:      []string{},
			Error:       errMsg,
			ExtractedAt: e.now(),
		}
	}

	profile, outcome := parseProfile(content)
	e.logOutcome("candidate profile", outcome, content)
	profile.ExtractedAt = e.now()
	return profile
}

// Requirement extracts a structured job-requirement record from posting text.
func (e *Extractor) Requirement(ctx context.Context, jobDescription, jobTitle string, forceCache bool) *Requirement {
	content, errMsg := e.complete(ctx, requirementPromptTemplate, jobTitle, jobDescription, forceCache)
	if errMsg != "" {
		return &Requirement{
			RequiredSkills: []string{},
			Error:          errMsg,
			ExtractedAt:    e.now(),
		}
	}

	requirement, outcome := parseRequirement(content)
	e.logOutcome("job requirement", outcome, content)
	requirement.ExtractedAt = e.now()
	return requirement
}

func (e *Extractor) complete(ctx context.Context, template, name, text string, forceCache bool) (content, errMsg string) {
	prompt := buildPrompt(template, name, text)

	e.logger.Debug("extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	res, err := e.completer.Complete(ctx, completion.Request{
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: systemPrompt},
			{Role: completion.RoleUser, Content: prompt},
		},
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
		ForceCache:  forceCache,
	})
	if err != nil {
		e.logger.Warn("extraction completion failed", zap.Error(err))
		return "", err.Error()
	}

	e.logger.Debug("extraction response",
		zap.Bool("cached", res.Cached),
		zap.Int("response_length", utf8.RuneCountInString(res.Content)),
		zap.String("response_preview", logger.TruncateForLog(res.Content, e.maxLogLen)),
	)

	return res.Content, ""
}

func (e *Extractor) logOutcome(kind string, outcome Outcome, content string) {
	switch outcome {
	case OutcomeParsed:
		return
	case OutcomeFallback:
		e.logger.Debug("model output required fallback parsing", zap.String("kind", kind))
	case OutcomeFailed:
		e.logger.Warn("model output not coercible to the expected schema",
			zap.String("kind", kind),
			zap.String("response_preview", logger.TruncateForLog(content, e.maxLogLen)),
		)
	}
}

func buildPrompt(template, name, text string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "the subject"
	}
	prompt := strings.ReplaceAll(template, "{{NAME}}", name)
	prompt = strings.ReplaceAll(prompt, "{{TEXT}}", text)
	return prompt
}
