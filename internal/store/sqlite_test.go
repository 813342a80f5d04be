package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "pipeline.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCandidateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := &Candidate{ID: "cand-1", Name: "Jordan Smith", ResumeText: "ten years of Go", CreatedAt: created}
	if err := s.AddCandidate(ctx, in); err != nil {
		t.Fatalf("add candidate: %v", err)
	}

	got, err := s.CandidateByID(ctx, "cand-1")
	if err != nil {
		t.Fatalf("candidate by id: %v", err)
	}
	if got.Name != in.Name || got.ResumeText != in.ResumeText {
		t.Fatalf("got %+v, want %+v", got, in)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
}

func TestCandidateByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CandidateByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddCandidateRequiresIDAndName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddCandidate(ctx, &Candidate{Name: "no id"}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := s.AddCandidate(ctx, &Candidate{ID: "c1"}); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestAddCandidateReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddCandidate(ctx, &Candidate{ID: "c1", Name: "before"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddCandidate(ctx, &Candidate{ID: "c1", Name: "after"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.CandidateByID(ctx, "c1")
	if err != nil {
		t.Fatalf("candidate by id: %v", err)
	}
	if got.Name != "after" {
		t.Fatalf("name = %q, want %q", got.Name, "after")
	}

	all, err := s.Candidates(ctx)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(all))
	}
}

func TestJobsListedInInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"job-a", "job-b", "job-c"} {
		err := s.AddJob(ctx, &Job{
			ID:        id,
			Title:     "role " + id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("add job %s: %v", id, err)
		}
	}

	jobs, err := s.Jobs(ctx)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("job count = %d, want 3", len(jobs))
	}
	for i, want := range []string{"job-a", "job-b", "job-c"} {
		if jobs[i].ID != want {
			t.Fatalf("jobs[%d] = %s, want %s", i, jobs[i].ID, want)
		}
	}
}

func TestRecordMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.RecordMatch(ctx, "c1", "j1", 0.67, 0.8, 1.0, 0.77, "Good Match")
	if err != nil {
		t.Fatalf("record match: %v", err)
	}
	// Same pair again replaces rather than duplicating.
	if err := s.RecordMatch(ctx, "c1", "j1", 1.0, 1.0, 1.0, 1.0, "Excellent Match"); err != nil {
		t.Fatalf("record match again: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM match_results`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("match rows = %d, want 1", count)
	}
}
