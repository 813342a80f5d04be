package hrapi

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/recruitpipe/recruitpipe/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(nil, server.URL, "test-token")
}

func TestCandidatesPaged(t *testing.T) {
	var authHeader string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != candidatesPath {
			http.NotFound(w, r)
			return
		}
		authHeader = r.Header.Get("Authorization")

		page := 0
		if r.URL.Query().Get("page") == "1" {
			page = 1
		}

		pages := [][]map[string]any{
			{
				{"id": "c1", "name": "Jordan", "resume_text": "go", "created_at": "2026-03-01T10:00:00Z"},
				{"id": "c2", "name": "Alex", "resume_text": "sql"},
			},
			{
				{"id": "c3", "name": "Sam", "resume_text": "docker"},
			},
		}

		json.NewEncoder(w).Encode(map[string]any{
			"items":    pages[page],
			"found":    3,
			"pages":    2,
			"page":     page,
			"per_page": 2,
		})
	})

	client := newTestClient(t, handler)

	candidates, err := client.Candidates(context.Background())
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("candidate count = %d, want 3", len(candidates))
	}
	if candidates[0].ID != "c1" || candidates[2].ID != "c3" {
		t.Fatalf("unexpected candidate order: %s, %s", candidates[0].ID, candidates[2].ID)
	}
	if candidates[0].CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
	if authHeader != "Bearer test-token" {
		t.Errorf("authorization header = %q", authHeader)
	}
}

func TestJobByIDGzipResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != jobsPath+"/j1" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		json.NewEncoder(gz).Encode(map[string]any{
			"id":          "j1",
			"title":       "Backend Engineer",
			"description": "build services",
		})
	})

	client := newTestClient(t, handler)

	job, err := client.JobByID(context.Background(), "j1")
	if err != nil {
		t.Fatalf("job by id: %v", err)
	}
	if job.Title != "Backend Engineer" || job.Description != "build services" {
		t.Fatalf("job = %+v", job)
	}
}

func TestCandidateByIDNotFound(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.CandidateByID(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestJobsBadStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	client := newTestClient(t, handler)

	if _, err := client.Jobs(context.Background()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
