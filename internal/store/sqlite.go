package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps candidates and jobs in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and bootstraps the
// schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS candidates (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		resume_text TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS jobs (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS match_results (
		candidate_id     TEXT NOT NULL,
		job_id           TEXT NOT NULL,
		skills_score     REAL NOT NULL,
		experience_score REAL NOT NULL,
		education_score  REAL NOT NULL,
		overall_score    REAL NOT NULL,
		category         TEXT NOT NULL,
		created_at       TEXT NOT NULL,
		PRIMARY KEY (candidate_id, job_id)
	)`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddCandidate inserts or replaces a candidate record.
func (s *SQLiteStore) AddCandidate(ctx context.Context, c *Candidate) error {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
		return errors.New("store: candidate id and name are required")
	}

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO candidates (id, name, resume_text, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.ResumeText, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: insert candidate: %w", err)
	}
	return nil
}

// AddJob inserts or replaces a job record.
func (s *SQLiteStore) AddJob(ctx context.Context, j *Job) error {
	if strings.TrimSpace(j.ID) == "" || strings.TrimSpace(j.Title) == "" {
		return errors.New("store: job id and title are required")
	}

	createdAt := j.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO jobs (id, title, description, created_at) VALUES (?, ?, ?, ?)`,
		j.ID, j.Title, j.Description, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: insert job: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CandidateByID(ctx context.Context, id string) (*Candidate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, resume_text, created_at FROM candidates WHERE id = ?`, id)

	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: query candidate: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) Candidates(ctx context.Context) ([]*Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, resume_text, created_at FROM candidates ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("store: query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (s *SQLiteStore) JobByID(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, created_at FROM jobs WHERE id = ?`, id)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: query job: %w", err)
	}
	return j, nil
}

func (s *SQLiteStore) Jobs(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, created_at FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("store: query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// RecordMatch persists a computed match outcome for later reporting.
func (s *SQLiteStore) RecordMatch(ctx context.Context, candidateID, jobID string, skills, experience, education, overall float64, category string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO match_results
		 (candidate_id, job_id, skills_score, experience_score, education_score, overall_score, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		candidateID, jobID, skills, experience, education, overall, category,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: record match: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*Candidate, error) {
	var c Candidate
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.ResumeText, &createdAt); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		c.CreatedAt = t
	}
	return &c, nil
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var createdAt string
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &createdAt); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		j.CreatedAt = t
	}
	return &j, nil
}
