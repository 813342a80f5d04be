package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/extraction"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a structured profile or requirement from a text file",
	Long: `Extract a candidate profile from a resume file or a job requirement from
a description file. Resumes can also be parsed offline without any LLM call.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runExtract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("resume", "", "path to a resume text file")
	extractCmd.Flags().String("job", "", "path to a job description text file")
	extractCmd.Flags().String("name", "", "candidate name for logging and prompts")
	extractCmd.Flags().String("title", "", "job title for logging and prompts")
	extractCmd.Flags().Bool("offline", false, "parse the resume deterministically without an LLM")
	extractCmd.Flags().Bool("force-cache", false, "forbid upstream LLM calls; extraction must be served from cache")
}

func runExtract(cmd *cobra.Command) {
	ctx := context.Background()

	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")
	offline, _ := cmd.Flags().GetBool("offline")
	forceCache, _ := cmd.Flags().GetBool("force-cache")

	if (resumePath == "") == (jobPath == "") {
		log.Fatal("exactly one of --resume or --job is required")
	}

	var record any
	switch {
	case resumePath != "" && offline:
		record = extractOffline(log, resumePath)
	case resumePath != "":
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = baseName(resumePath)
		}
		text := readInput(log, resumePath)

		extractor := newTextExtractor(ctx, log, config)
		record = extractor.Profile(ctx, text, name, forceCache)
	default:
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = baseName(jobPath)
		}
		text := readInput(log, jobPath)

		extractor := newTextExtractor(ctx, log, config)
		record = extractor.Requirement(ctx, text, title, forceCache)
	}

	pretty, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		log.Fatal("encoding extraction result", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

func extractOffline(log *zap.Logger, path string) *extraction.Profile {
	text := readInput(log, path)

	resume := extraction.ParseResume(text)
	profile := resume.Profile(time.Now())

	log.Info("parsed resume offline",
		zap.Int("skills", len(profile.Skills)),
		zap.Float64("experience_years", profile.ExperienceYears),
	)

	return profile
}

func newTextExtractor(ctx context.Context, log *zap.Logger, config *Config) *extraction.Extractor {
	extractor, _, err := newExtractor(ctx, log, config)
	if err != nil {
		log.Fatal("building extractor", zap.Error(err))
	}
	return extractor
}

func readInput(log *zap.Logger, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("reading input file", zap.String("path", path), zap.Error(err))
	}
	return string(data)
}

// baseName turns a file path into a readable fallback label.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
