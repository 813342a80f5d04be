// Package store holds candidate and job records and the backends that
// serve them.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by ID finds no record.
var ErrNotFound = errors.New("not found")

// Candidate is a stored candidate with raw resume text.
type Candidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ResumeText string    `json:"resume_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Job is a stored job posting with raw description text.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CandidateSource serves candidate records.
type CandidateSource interface {
	CandidateByID(ctx context.Context, id string) (*Candidate, error)
	Candidates(ctx context.Context) ([]*Candidate, error)
}

// JobSource serves job records.
type JobSource interface {
	JobByID(ctx context.Context, id string) (*Job, error)
	Jobs(ctx context.Context) ([]*Job, error)
}

// Source is a combined backend serving both record kinds.
type Source interface {
	CandidateSource
	JobSource
}
