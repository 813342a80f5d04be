package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/extraction"
	"github.com/recruitpipe/recruitpipe/internal/logger"
	"github.com/recruitpipe/recruitpipe/internal/scoring"
	"github.com/recruitpipe/recruitpipe/internal/store"
)

const defaultBatchSize = 5

// Extractor produces structured records from raw text. Extraction failures
// surface inside the returned record, never as an error.
type Extractor interface {
	Profile(ctx context.Context, resumeText, candidateName string, forceCache bool) *extraction.Profile
	Requirement(ctx context.Context, jobDescription, jobTitle string, forceCache bool) *extraction.Requirement
}

// Recorder receives every freshly computed result for durable reporting.
type Recorder interface {
	RecordMatch(ctx context.Context, candidateID, jobID string, skills, experience, education, overall float64, category string) error
}

// Deps aggregates the collaborators the orchestrator drives.
type Deps struct {
	Source    store.Source
	Extractor Extractor
	Engine    *scoring.Engine
	Cache     *Cache
	Recorder  Recorder
	Logger    *zap.Logger
}

// Config tunes batch behaviour. Zero values fall back to defaults.
type Config struct {
	BatchSize int
}

// Options control caching for a single run.
type Options struct {
	// UseCache serves previously scored pairs from the match cache.
	UseCache bool
	// ForceCache forbids upstream LLM calls during extraction.
	ForceCache bool
}

type Orchestrator struct {
	source    store.Source
	extractor Extractor
	engine    *scoring.Engine
	cache     *Cache
	recorder  Recorder
	logger    *zap.Logger
	batchSize int
	now       func() time.Time
}

func NewOrchestrator(deps Deps, cfg Config) *Orchestrator {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Orchestrator{
		source:    deps.Source,
		extractor: deps.Extractor,
		engine:    deps.Engine,
		cache:     deps.Cache,
		recorder:  deps.Recorder,
		logger:    log,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Match scores one candidate against one job.
func (o *Orchestrator) Match(ctx context.Context, candidateID, jobID string, opts Options) (*Result, error) {
	if opts.UseCache && o.cache != nil {
		if cached, ok := o.cache.Get(candidateID, jobID); ok {
			o.logger.Debug("serving match from cache", logger.PairFields(candidateID, jobID)...)
			return cached, nil
		}
	}

	candidate, err := o.source.CandidateByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("loading candidate: %w", err)
	}
	job, err := o.source.JobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}

	profile := o.extractor.Profile(ctx, candidate.ResumeText, candidate.Name, opts.ForceCache)
	requirement := o.extractor.Requirement(ctx, job.Description, job.Title, opts.ForceCache)

	return o.finish(ctx, candidate, job, profile, requirement), nil
}

// MatchCandidateToAllJobs scores one candidate against every stored job and
// returns the results best first.
func (o *Orchestrator) MatchCandidateToAllJobs(ctx context.Context, candidateID string, opts Options) ([]*Result, error) {
	candidate, err := o.source.CandidateByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("loading candidate: %w", err)
	}
	jobs, err := o.source.Jobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}

	// The profile is shared across every pair; extract it at most once, and
	// only if some pair misses the cache.
	var profileOnce sync.Once
	var profile *extraction.Profile
	sharedProfile := func() *extraction.Profile {
		profileOnce.Do(func() {
			profile = o.extractor.Profile(ctx, candidate.ResumeText, candidate.Name, opts.ForceCache)
		})
		return profile
	}

	results := make([]*Result, len(jobs))
	for start := 0; start < len(jobs); start += o.batchSize {
		end := min(start+o.batchSize, len(jobs))
		o.logger.Info("scoring batch",
			zap.String("candidate_id", candidateID),
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(jobs)),
		)

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				job := jobs[i]

				if opts.UseCache && o.cache != nil {
					if cached, ok := o.cache.Get(candidateID, job.ID); ok {
						results[i] = cached
						return
					}
				}

				requirement := o.extractor.Requirement(ctx, job.Description, job.Title, opts.ForceCache)
				results[i] = o.finish(ctx, candidate, job, sharedProfile(), requirement)
			}(i)
		}
		wg.Wait()
	}

	SortByScore(results)
	return results, nil
}

// MatchAllCandidatesToJob scores every stored candidate against one job and
// returns the results best first.
func (o *Orchestrator) MatchAllCandidatesToJob(ctx context.Context, jobID string, opts Options) ([]*Result, error) {
	job, err := o.source.JobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	candidates, err := o.source.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	var requirementOnce sync.Once
	var requirement *extraction.Requirement
	sharedRequirement := func() *extraction.Requirement {
		requirementOnce.Do(func() {
			requirement = o.extractor.Requirement(ctx, job.Description, job.Title, opts.ForceCache)
		})
		return requirement
	}

	results := make([]*Result, len(candidates))
	for start := 0; start < len(candidates); start += o.batchSize {
		end := min(start+o.batchSize, len(candidates))
		o.logger.Info("scoring batch",
			zap.String("job_id", jobID),
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(candidates)),
		)

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				candidate := candidates[i]

				if opts.UseCache && o.cache != nil {
					if cached, ok := o.cache.Get(candidate.ID, jobID); ok {
						results[i] = cached
						return
					}
				}

				profile := o.extractor.Profile(ctx, candidate.ResumeText, candidate.Name, opts.ForceCache)
				results[i] = o.finish(ctx, candidate, job, profile, sharedRequirement())
			}(i)
		}
		wg.Wait()
	}

	SortByScore(results)
	return results, nil
}

// finish scores an extracted pair and persists the outcome. Persistence
// failures are logged, not returned; the computed result is still usable.
func (o *Orchestrator) finish(ctx context.Context, candidate *store.Candidate, job *store.Job, profile *extraction.Profile, requirement *extraction.Requirement) *Result {
	scores := o.engine.Score(requirement, profile)

	result := &Result{
		CandidateID:     candidate.ID,
		CandidateName:   candidate.Name,
		JobID:           job.ID,
		JobTitle:        job.Title,
		SkillsScore:     scores.SkillsScore,
		ExperienceScore: scores.ExperienceScore,
		EducationScore:  scores.EducationScore,
		OverallScore:    scores.OverallScore,
		Category:        scores.Category,
		Timestamp:       o.now().UTC(),
	}

	o.logger.Info("pair scored", append(logger.PairFields(candidate.ID, job.ID),
		zap.Float64("overall_score", result.OverallScore),
		zap.String("category", result.Category),
	)...)

	if o.cache != nil {
		if err := o.cache.Put(result); err != nil {
			o.logger.Warn("caching match result failed", append(logger.PairFields(candidate.ID, job.ID), zap.Error(err))...)
		}
	}
	if o.recorder != nil {
		err := o.recorder.RecordMatch(ctx, candidate.ID, job.ID,
			result.SkillsScore, result.ExperienceScore, result.EducationScore,
			result.OverallScore, result.Category)
		if err != nil {
			o.logger.Warn("recording match result failed", append(logger.PairFields(candidate.ID, job.ID), zap.Error(err))...)
		}
	}

	return result
}
