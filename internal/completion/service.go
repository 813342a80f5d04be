package completion

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/recruitpipe/recruitpipe/internal/waitutil"
)

const (
	defaultMaxRetries = 5
	initialBackoff    = time.Second
	maxBackoff        = 30 * time.Second
)

// Swappable in tests to keep retry paths deterministic.
var (
	wait   = waitutil.WaitFor
	jitter = func() time.Duration { return time.Duration(rand.Float64() * float64(time.Second)) }
)

// Upstream performs a single chat completion against the provider.
type Upstream interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ServiceConfig holds tunables for the completion service.
type ServiceConfig struct {
	// MaxRetries bounds retry attempts on transient rate limits.
	MaxRetries int
	// RequestsPerMinute, when positive, paces upstream calls client-side.
	RequestsPerMinute int
}

// Service wraps an LLM upstream with response caching, retry with exponential
// backoff on transient rate limits, and a cooldown on daily quota exhaustion.
type Service struct {
	upstream   Upstream
	cache      *DiskCache
	quota      *QuotaState
	limiter    *rate.Limiter
	logger     *zap.Logger
	maxRetries int

	now func() time.Time
}

func NewService(upstream Upstream, cache *DiskCache, logger *zap.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Service{
		upstream:   upstream,
		cache:      cache,
		quota:      NewQuotaState(),
		limiter:    limiter,
		logger:     logger,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// Quota exposes the process-wide quota state owned by this service.
func (s *Service) Quota() *QuotaState { return s.quota }

// Complete answers the request from cache when possible, otherwise calls the
// upstream with retry and backoff. Successful non-streamed completions are
// persisted to the cache before returning.
func (s *Service) Complete(ctx context.Context, req Request) (*Completion, error) {
	if len(req.Messages) == 0 {
		return nil, errors.New("at least one message is required")
	}
	if req.Temperature < 0 || req.Temperature > 2 {
		return nil, fmt.Errorf("temperature %v is outside [0, 2]", req.Temperature)
	}
	if req.MaxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", req.MaxTokens)
	}

	key := cacheKey(req)

	if req.ForceCache || !s.quota.Available() {
		return s.completeFromCache(req, key)
	}

	if content, ok := s.cache.Get(key); ok {
		s.logger.Debug("serving completion from cache")
		return &Completion{Content: content, Cached: true}, nil
	}

	backoff := initialBackoff
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		content, err := s.upstream.Complete(ctx, req)
		if err == nil {
			if req.Stream {
				// A streamed response cannot be replayed from cache.
				return &Completion{Content: content}, nil
			}
			if err := s.cache.Put(key, content); err != nil {
				return nil, fmt.Errorf("persisting completion cache: %w", err)
			}
			return &Completion{Content: content}, nil
		}

		if isDailyQuota(err) {
			s.tripDailyQuota(err)
			return s.completeFromCache(req, key)
		}

		if !isRateLimited(err) {
			return nil, fmt.Errorf("upstream completion: %w", err)
		}

		if attempt == s.maxRetries {
			break
		}

		delay := backoff
		if suggested, ok := parseRateWait(err.Error()); ok {
			delay = suggested + jitter()
		}

		s.logger.Info("rate limited by upstream; backing off",
			zap.Duration("delay", delay),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", s.maxRetries),
		)

		if err := wait(ctx, delay); err != nil {
			return nil, err
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return nil, ErrRetriesExhausted
}

// completeFromCache serves cache-only paths: forced cache use and quota
// cooldowns. It never fabricates content on a miss.
func (s *Service) completeFromCache(req Request, key string) (*Completion, error) {
	if req.Stream {
		s.logger.Warn("streaming requested but answering from cache; streaming disabled")
	}

	if content, ok := s.cache.Get(key); ok {
		s.logger.Debug("serving completion from cache", zap.Bool("force_cache", req.ForceCache))
		return &Completion{Content: content, Cached: true}, nil
	}

	return nil, ErrQuotaExhausted
}

func (s *Service) tripDailyQuota(err error) {
	var resetAt time.Time
	fields := []zap.Field{zap.Error(err)}

	if d, ok := parseDailyWait(err.Error()); ok {
		resetAt = s.now().Add(d)
		fields = append(fields, zap.Time("reset_at", resetAt))
	}

	s.quota.TripDaily(resetAt)
	s.logger.Warn("daily token quota reached; switching to cache-only mode", fields...)
}
