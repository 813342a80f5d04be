// Package hrapi is an HTTP client for a remote HR system serving candidate
// and job records. It satisfies the store source interfaces so the matching
// pipeline can run against a remote backend instead of the local database.
package hrapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/store"
)

const (
	candidatesPath = "/candidates"
	jobsPath       = "/jobs"
	userAgent      = "recruitpipe"
	// Max value for list page size.
	perPage = "100"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

type candidateItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ResumeText string `json:"resume_text"`
	CreatedAt  string `json:"created_at"`
}

type jobItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func (c *Client) Candidates(ctx context.Context) ([]*store.Candidate, error) {
	q := url.Values{}
	q.Set("per_page", perPage)

	items, err := c.getItems(ctx, c.APIURL+candidatesPath, q)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	var decoded []*candidateItem
	if err := decodeItems(items, &decoded); err != nil {
		return nil, fmt.Errorf("decoding candidates: %w", err)
	}

	candidates := make([]*store.Candidate, 0, len(decoded))
	for _, item := range decoded {
		candidates = append(candidates, item.toCandidate())
	}
	return candidates, nil
}

func (c *Client) CandidateByID(ctx context.Context, id string) (*store.Candidate, error) {
	var item candidateItem
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s/%s", c.APIURL, candidatesPath, id), nil, &item); err != nil {
		return nil, fmt.Errorf("candidate %s: %w", id, err)
	}
	return item.toCandidate(), nil
}

func (c *Client) Jobs(ctx context.Context) ([]*store.Job, error) {
	q := url.Values{}
	q.Set("per_page", perPage)

	items, err := c.getItems(ctx, c.APIURL+jobsPath, q)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	var decoded []*jobItem
	if err := decodeItems(items, &decoded); err != nil {
		return nil, fmt.Errorf("decoding jobs: %w", err)
	}

	jobs := make([]*store.Job, 0, len(decoded))
	for _, item := range decoded {
		jobs = append(jobs, item.toJob())
	}
	return jobs, nil
}

func (c *Client) JobByID(ctx context.Context, id string) (*store.Job, error) {
	var item jobItem
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s/%s", c.APIURL, jobsPath, id), nil, &item); err != nil {
		return nil, fmt.Errorf("job %s: %w", id, err)
	}
	return item.toJob(), nil
}

func decodeItems(items []item, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   target,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(items)
}

func (i *candidateItem) toCandidate() *store.Candidate {
	return &store.Candidate{
		ID:         i.ID,
		Name:       i.Name,
		ResumeText: i.ResumeText,
		CreatedAt:  parseTime(i.CreatedAt),
	}
}

func (i *jobItem) toJob() *store.Job {
	return &store.Job{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		CreatedAt:   parseTime(i.CreatedAt),
	}
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
