package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a candidate resume or a job description into the store",
	Run: func(cmd *cobra.Command, _ []string) {
		runImport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("resume", "", "path to a resume text file to import as a candidate")
	importCmd.Flags().String("job", "", "path to a job description text file to import")
	importCmd.Flags().String("name", "", "candidate name (required with --resume)")
	importCmd.Flags().String("title", "", "job title (required with --job)")
	importCmd.Flags().String("id", "", "record ID (a UUID is generated when omitted)")
	importCmd.Flags().String("candidates", "", "path to a JSON array of candidate records")
	importCmd.Flags().String("jobs", "", "path to a JSON array of job records")
}

// writer is the store capability import needs; only some backends have it.
type writer interface {
	AddCandidate(ctx context.Context, c *store.Candidate) error
	AddJob(ctx context.Context, j *store.Job) error
}

func runImport(cmd *cobra.Command) {
	ctx := context.Background()

	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")
	candidatesPath, _ := cmd.Flags().GetString("candidates")
	jobsPath, _ := cmd.Flags().GetString("jobs")

	set := 0
	for _, path := range []string{resumePath, jobPath, candidatesPath, jobsPath} {
		if path != "" {
			set++
		}
	}
	if set != 1 {
		log.Fatal("exactly one of --resume, --job, --candidates or --jobs is required")
	}

	source, closeSource, err := openSource(log, config)
	if err != nil {
		log.Fatal("opening candidate/job store", zap.Error(err))
	}
	defer closeSource()

	target, ok := source.(writer)
	if !ok {
		log.Fatal("store backend does not support import",
			zap.String("backend", config.Store.Backend),
			zap.String("hint", "import requires the sqlite backend"),
		)
	}

	switch {
	case candidatesPath != "":
		importCandidates(ctx, log, target, candidatesPath)
		return
	case jobsPath != "":
		importJobs(ctx, log, target, jobsPath)
		return
	}

	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		id = uuid.NewString()
	}

	if resumePath != "" {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			log.Fatal("--name is required when importing a resume")
		}

		text, err := os.ReadFile(resumePath)
		if err != nil {
			log.Fatal("reading resume file", zap.String("path", resumePath), zap.Error(err))
		}

		candidate := &store.Candidate{ID: id, Name: name, ResumeText: string(text)}
		if err := target.AddCandidate(ctx, candidate); err != nil {
			log.Fatal("importing candidate", zap.Error(err))
		}

		log.Info("candidate imported", zap.String("candidate_id", id), zap.String("name", name))
		return
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		log.Fatal("--title is required when importing a job")
	}

	text, err := os.ReadFile(jobPath)
	if err != nil {
		log.Fatal("reading job file", zap.String("path", jobPath), zap.Error(err))
	}

	job := &store.Job{ID: id, Title: title, Description: string(text)}
	if err := target.AddJob(ctx, job); err != nil {
		log.Fatal("importing job", zap.Error(err))
	}

	log.Info("job imported", zap.String("job_id", id), zap.String("title", title))
}

func importCandidates(ctx context.Context, log *zap.Logger, target writer, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("reading candidates file", zap.String("path", path), zap.Error(err))
	}

	var candidates []*store.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		log.Fatal("parsing candidates file", zap.String("path", path), zap.Error(err))
	}

	for _, candidate := range candidates {
		if candidate.ID == "" {
			candidate.ID = uuid.NewString()
		}
		if err := target.AddCandidate(ctx, candidate); err != nil {
			log.Fatal("importing candidate", zap.String("candidate_id", candidate.ID), zap.Error(err))
		}
	}

	log.Info("candidates imported", zap.Int("count", len(candidates)))
}

func importJobs(ctx context.Context, log *zap.Logger, target writer, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("reading jobs file", zap.String("path", path), zap.Error(err))
	}

	var jobs []*store.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		log.Fatal("parsing jobs file", zap.String("path", path), zap.Error(err))
	}

	for _, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		if err := target.AddJob(ctx, job); err != nil {
			log.Fatal("importing job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}

	log.Info("jobs imported", zap.Int("count", len(jobs)))
}
