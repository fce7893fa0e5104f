// Package quote resolves market quotes for a symbol list, preferring the
// quote cache and falling back to paced sequential provider requests.
package quote

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/models"
)

// DefaultRequestTimeout bounds a single provider request.
const DefaultRequestTimeout = 10 * time.Second

// Service implements interfaces.QuoteService.
type Service struct {
	provider       interfaces.QuoteProvider
	cache          interfaces.QuoteCache
	pacer          Pacer
	logger         *common.Logger
	timeout        time.Duration
	refetchMissing bool
	now            func() time.Time // injectable clock for testing

	mu sync.Mutex // one provider batch at a time
}

var _ interfaces.QuoteService = (*Service)(nil)

// Option configures the service.
type Option func(*Service)

// WithPacer replaces the default 500ms fixed delay.
func WithPacer(p Pacer) Option {
	return func(s *Service) {
		if p != nil {
			s.pacer = p
		}
	}
}

// WithRequestTimeout bounds each provider request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRefetchMissing makes a fresh cache that lacks requested symbols fetch
// only those symbols and append them, keeping the original timestamp.
func WithRefetchMissing(enabled bool) Option {
	return func(s *Service) {
		s.refetchMissing = enabled
	}
}

// NewService creates a quote service.
func NewService(provider interfaces.QuoteProvider, cache interfaces.QuoteCache, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		cache:    cache,
		pacer:    NewFixedDelay(500 * time.Millisecond),
		logger:   logger,
		timeout:  DefaultRequestTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PacerFromConfig picks the token bucket when a rate limit is configured,
// otherwise the fixed inter-request delay.
func PacerFromConfig(cfg common.BrapiConfig) Pacer {
	if cfg.RateLimit > 0 {
		return NewLimiterPacer(cfg.RateLimit)
	}
	return NewFixedDelay(cfg.GetRequestDelay())
}

// FetchQuotes returns quotes for symbols. A fresh cache is returned as is,
// without filtering to the requested symbols. Otherwise every symbol is
// fetched in order and the cache is replaced with the results.
// An empty symbol list returns an empty set without touching the cache or network.
func (s *Service) FetchQuotes(ctx context.Context, symbols []string) (*models.QuoteSet, error) {
	canonical := canonicalize(symbols)
	if len(canonical) == 0 {
		return emptySet(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, ts := s.cache.Read(ctx)
	if s.cache.IsFresh(ts, s.now()) {
		s.logger.Debug().Int("quotes", len(quotes)).Int("requested", len(canonical)).Msg("Quote cache hit")

		if s.refetchMissing {
			quotes = s.fillGaps(ctx, quotes, ts, canonical)
		}
		return &models.QuoteSet{Quotes: nonNil(quotes), FromCache: true, UpdatedAt: common.UnixMilli(ts)}, nil
	}

	s.logger.Debug().Int("requested", len(canonical)).Bool("expired", !ts.IsZero()).Msg("Quote cache miss")
	return s.refresh(ctx, canonical)
}

// Refresh refetches every symbol regardless of cache freshness.
func (s *Service) Refresh(ctx context.Context, symbols []string) (*models.QuoteSet, error) {
	canonical := canonicalize(symbols)
	if len(canonical) == 0 {
		return emptySet(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx, canonical)
}

// Cached returns the cache contents without any network access.
func (s *Service) Cached(ctx context.Context) *models.QuoteSet {
	quotes, ts := s.cache.Read(ctx)
	set := &models.QuoteSet{Quotes: nonNil(quotes), FromCache: true}
	if !ts.IsZero() {
		set.UpdatedAt = common.UnixMilli(ts)
	}
	return set
}

func (s *Service) refresh(ctx context.Context, symbols []string) (*models.QuoteSet, error) {
	startedAt := s.now()
	start := time.Now()

	results, err := s.fetchSequential(ctx, symbols)
	if err != nil {
		// Cancelled part way: keep the previous slot rather than store a partial batch
		return nil, err
	}

	if err := s.cache.Write(ctx, results, startedAt); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write quote cache")
	}

	s.logger.Info().
		Int("requested", len(symbols)).
		Int("resolved", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Quotes refreshed")

	return &models.QuoteSet{Quotes: results, UpdatedAt: common.UnixMilli(startedAt)}, nil
}

func (s *Service) fillGaps(ctx context.Context, quotes []models.Quote, ts time.Time, requested []string) []models.Quote {
	have := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		have[q.Symbol] = true
	}
	var missing []string
	for _, sym := range requested {
		if !have[sym] {
			missing = append(missing, sym)
		}
	}
	if len(missing) == 0 {
		return quotes
	}

	fetched, err := s.fetchSequential(ctx, missing)
	if err != nil || len(fetched) == 0 {
		return quotes
	}

	merged := append(append(make([]models.Quote, 0, len(quotes)+len(fetched)), quotes...), fetched...)
	// Gap fills keep the original timestamp so they never extend freshness
	if err := s.cache.Write(ctx, merged, ts); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write quote cache after gap fill")
	}
	s.logger.Info().Int("missing", len(missing)).Int("filled", len(fetched)).Msg("Quote cache gaps filled")
	return merged
}

// fetchSequential requests symbols one at a time, in order, pausing between
// requests. Failed symbols are logged and skipped. Only cancellation of ctx
// aborts the batch.
func (s *Service) fetchSequential(ctx context.Context, symbols []string) ([]models.Quote, error) {
	results := make([]models.Quote, 0, len(symbols))
	for i, sym := range symbols {
		if i > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		q, err := s.provider.GetQuote(reqCtx, sym)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn().Err(err).Str("symbol", sym).Msg("Quote fetch failed, skipping symbol")
			continue
		}
		if q == nil {
			s.logger.Warn().Str("symbol", sym).Msg("Quote provider returned no data, skipping symbol")
			continue
		}
		results = append(results, *q)
	}
	return results, nil
}

func canonicalize(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		s := models.CanonicalSymbol(raw)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func emptySet() *models.QuoteSet {
	return &models.QuoteSet{Quotes: []models.Quote{}}
}

func nonNil(q []models.Quote) []models.Quote {
	if q == nil {
		return []models.Quote{}
	}
	return q
}
