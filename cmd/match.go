package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/match"
	"github.com/recruitpipe/recruitpipe/internal/store"
)

const (
	PromptAllCandidates = "All candidates"
	PromptAllJobs       = "All jobs"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score candidates against job postings",
	Long: `Score one candidate against one job, one candidate against every job,
or every candidate against one job. Omit both IDs to choose interactively.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("candidate", "c", "", "candidate ID to score")
	matchCmd.Flags().String("job", "", "job ID to score against")
	matchCmd.Flags().Bool("no-cache", false, "recompute pairs even when a cached result exists")
	matchCmd.Flags().Bool("force-cache", false, "forbid upstream LLM calls; extraction must be served from cache")
	matchCmd.Flags().Float64("min-score", 0, "drop results below this overall score")
	matchCmd.Flags().Int("top", 0, "keep only the best N results")
	matchCmd.Flags().StringSlice("category", nil, "keep only results in these categories")
}

func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting "+app, zap.String("version", version))

	source, closeSource, err := openSource(log, config)
	if err != nil {
		log.Fatal("opening candidate/job store", zap.Error(err))
	}
	defer closeSource()

	extractor, service, err := newExtractor(ctx, log, config)
	if err != nil {
		log.Fatal("building extractor", zap.Error(err))
	}

	recorder, _ := source.(match.Recorder)
	orchestrator, err := newMatchOrchestrator(log, config, source, extractor, recorder)
	if err != nil {
		log.Fatal("building orchestrator", zap.Error(err))
	}

	candidateID, _ := cmd.Flags().GetString("candidate")
	jobID, _ := cmd.Flags().GetString("job")

	if candidateID == "" && jobID == "" {
		candidateID, jobID, err = pickPair(ctx, source)
		if err != nil {
			log.Fatal("selecting candidate and job", zap.Error(err))
		}
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	forceCache, _ := cmd.Flags().GetBool("force-cache")
	opts := match.Options{
		UseCache:   !noCache,
		ForceCache: forceCache,
	}

	var results []*match.Result
	switch {
	case candidateID != "" && jobID != "":
		result, err := orchestrator.Match(ctx, candidateID, jobID, opts)
		if err != nil {
			log.Fatal("matching pair", zap.Error(err))
		}
		results = []*match.Result{result}
	case candidateID != "":
		results, err = orchestrator.MatchCandidateToAllJobs(ctx, candidateID, opts)
		if err != nil {
			log.Fatal("matching candidate against all jobs", zap.Error(err))
		}
	case jobID != "":
		results, err = orchestrator.MatchAllCandidatesToJob(ctx, jobID, opts)
		if err != nil {
			log.Fatal("matching all candidates against job", zap.Error(err))
		}
	default:
		log.Fatal("nothing to match", zap.String("hint", "choose at least one concrete candidate or job"))
	}

	if resetAt, tripped := service.Quota().ResetAt(); tripped {
		log.Warn("daily quota exhausted during the run; uncached pairs were served from cache only",
			zap.Time("resets_at", resetAt),
		)
	}

	results = match.RunFilters(log, resultFilters(cmd, config), results)

	if len(results) == 0 {
		log.Info("exiting", zap.String("reason", "no results left after filters"))
		return
	}

	pretty, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Fatal("encoding results", zap.Error(err))
	}
	fmt.Println(string(pretty))

	log.Info("matching finished", zap.Int("results", len(results)))
}

// resultFilters builds the output filter pipeline from flags, falling back
// to config values when a flag is unset.
func resultFilters(cmd *cobra.Command, config *Config) []match.Filter {
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	if minScore == 0 {
		minScore = config.Match.MinScore
	}

	categories, _ := cmd.Flags().GetStringSlice("category")
	if len(categories) == 0 {
		categories = config.Match.Categories
	}

	top, _ := cmd.Flags().GetInt("top")
	if top == 0 {
		top = config.Match.Top
	}

	return []match.Filter{
		match.NewMinScore(minScore),
		match.NewCategory(categories),
		match.NewTopN(top),
	}
}

// pickPair asks the operator to choose a candidate and a job. Either side
// may be "all", but not both.
func pickPair(ctx context.Context, source store.Source) (string, string, error) {
	candidateID, err := pickCandidate(ctx, source)
	if err != nil {
		return "", "", err
	}

	jobID, err := pickJob(ctx, source, candidateID != "")
	if err != nil {
		return "", "", err
	}

	if candidateID == "" && jobID == "" {
		return "", "", fmt.Errorf("scoring all candidates against all jobs is not supported")
	}

	return candidateID, jobID, nil
}

func pickCandidate(ctx context.Context, source store.Source) (string, error) {
	candidates, err := source.Candidates(ctx)
	if err != nil {
		return "", fmt.Errorf("listing candidates: %w", err)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no candidates in the store")
	}

	items := make([]string, 0, len(candidates)+1)
	for _, candidate := range candidates {
		items = append(items, fmt.Sprintf("%s %s", candidate.ID, candidate.Name))
	}

	prompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: append(items, PromptAllCandidates),
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if selected == PromptAllCandidates {
		return "", nil
	}

	return strings.Split(selected, " ")[0], nil
}

func pickJob(ctx context.Context, source store.Source, allowAll bool) (string, error) {
	jobs, err := source.Jobs(ctx)
	if err != nil {
		return "", fmt.Errorf("listing jobs: %w", err)
	}
	if len(jobs) == 0 {
		return "", fmt.Errorf("no jobs in the store")
	}

	items := make([]string, 0, len(jobs)+1)
	for _, job := range jobs {
		items = append(items, fmt.Sprintf("%s %s", job.ID, job.Title))
	}
	if allowAll {
		items = append(items, PromptAllJobs)
	}

	prompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: items,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if selected == PromptAllJobs {
		return "", nil
	}

	return strings.Split(selected, " ")[0], nil
}
