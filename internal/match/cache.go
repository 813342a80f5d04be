package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Cache persists one JSON file per scored pair so repeated runs can skip
// extraction and scoring entirely.
type Cache struct {
	dir    string
	logger *zap.Logger
}

func NewCache(dir string, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating match cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir, logger: logger}, nil
}

func (c *Cache) fileName(candidateID, jobID string) string {
	return filepath.Join(c.dir, fmt.Sprintf("match_%s_%s.json", candidateID, jobID))
}

// Get returns the cached result for the pair, or false when absent. An
// unreadable or corrupt file counts as a miss so the pair gets rescored.
func (c *Cache) Get(candidateID, jobID string) (*Result, bool) {
	data, err := os.ReadFile(c.fileName(candidateID, jobID))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("reading match cache entry failed",
				zap.String("candidate_id", candidateID),
				zap.String("job_id", jobID),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("discarding corrupt match cache entry",
			zap.String("candidate_id", candidateID),
			zap.String("job_id", jobID),
			zap.Error(err),
		)
		return nil, false
	}

	return &result, true
}

// Put writes the result through a temp file and rename.
func (c *Cache) Put(result *Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding match result: %w", err)
	}

	path := c.fileName(result.CandidateID, result.JobID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("writing match result: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing match result: %w", err)
	}

	return nil
}
