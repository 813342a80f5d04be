package match

import (
	"strings"

	"go.uber.org/zap"
)

// Filter is a single narrowing step applied to a scored result list.
type Filter interface {
	Name() string
	Apply(results []*Result) []*Result
}

// Step describes the outcome of one filter application.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// RunFilters executes the filters sequentially, logging a summary per step.
func RunFilters(log *zap.Logger, filters []Filter, results []*Result) []*Result {
	if log == nil {
		log = zap.NewNop()
	}

	for _, filter := range filters {
		initial := len(results)
		results = filter.Apply(results)

		log.Info("filter step",
			zap.String("name", filter.Name()),
			zap.Int("initial", initial),
			zap.Int("dropped", initial-len(results)),
			zap.Int("left", len(results)),
		)
	}

	return results
}

type minScoreFilter struct {
	min float64
}

// NewMinScore keeps results whose overall score meets the threshold. A
// non-positive threshold passes everything through.
func NewMinScore(min float64) Filter {
	return &minScoreFilter{min: min}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Apply(results []*Result) []*Result {
	if f.min <= 0 {
		return results
	}

	kept := make([]*Result, 0, len(results))
	for _, result := range results {
		if result.OverallScore >= f.min {
			kept = append(kept, result)
		}
	}
	return kept
}

type categoryFilter struct {
	categories map[string]bool
}

// NewCategory keeps results in any of the named categories, compared
// case-insensitively. An empty list passes everything through.
func NewCategory(categories []string) Filter {
	allowed := make(map[string]bool, len(categories))
	for _, category := range categories {
		category = strings.ToLower(strings.TrimSpace(category))
		if category != "" {
			allowed[category] = true
		}
	}
	return &categoryFilter{categories: allowed}
}

func (f *categoryFilter) Name() string { return "category" }

func (f *categoryFilter) Apply(results []*Result) []*Result {
	if len(f.categories) == 0 {
		return results
	}

	kept := make([]*Result, 0, len(results))
	for _, result := range results {
		if f.categories[strings.ToLower(result.Category)] {
			kept = append(kept, result)
		}
	}
	return kept
}

type topNFilter struct {
	n int
}

// NewTopN keeps the first n results. The input is already sorted best first,
// so this is a truncation. A non-positive n passes everything through.
func NewTopN(n int) Filter {
	return &topNFilter{n: n}
}

func (f *topNFilter) Name() string { return "top_n" }

func (f *topNFilter) Apply(results []*Result) []*Result {
	if f.n <= 0 || len(results) <= f.n {
		return results
	}
	return results[:f.n]
}
