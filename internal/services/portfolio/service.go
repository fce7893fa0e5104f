package portfolio

import (
	"context"
	"fmt"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/models"
	"github.com/bobmcallan/carteira/internal/services/quote"
	"github.com/bobmcallan/carteira/internal/services/ranking"
)

// Service implements interfaces.PortfolioService over the wallet API and the
// quote service.
type Service struct {
	wallet   interfaces.WalletClient
	quotes   interfaces.QuoteService
	logos    LogoResolver
	topN     int
	currency string
	logger   *common.Logger
}

var _ interfaces.PortfolioService = (*Service)(nil)

// Option configures the service.
type Option func(*Service)

func WithLogos(r LogoResolver) Option { return func(s *Service) { s.logos = r } }

func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

func WithCurrency(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.currency = code
		}
	}
}

// NewService creates a portfolio service.
func NewService(wallet interfaces.WalletClient, quotes interfaces.QuoteService, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		wallet:   wallet,
		quotes:   quotes,
		logos:    NewLogoResolver(common.NewDefaultConfig().Logos),
		topN:     ranking.DefaultTopN,
		currency: "BRL",
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Holdings returns the wallet positions.
func (s *Service) Holdings(ctx context.Context) ([]models.Holding, error) {
	holdings, err := s.wallet.GetHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	return holdings, nil
}

// Quotes resolves quotes for the priced holdings. forceRefresh bypasses the
// cache freshness check.
func (s *Service) Quotes(ctx context.Context, forceRefresh bool) (*models.QuoteSet, error) {
	holdings, err := s.Holdings(ctx)
	if err != nil {
		return nil, err
	}
	return s.quotesFor(ctx, holdings, forceRefresh)
}

func (s *Service) quotesFor(ctx context.Context, holdings []models.Holding, forceRefresh bool) (*models.QuoteSet, error) {
	symbols := quote.SymbolsFor(holdings)
	if forceRefresh {
		return s.quotes.Refresh(ctx, symbols)
	}
	return s.quotes.FetchQuotes(ctx, symbols)
}

type snapshot struct {
	holdings []models.Holding
	quotes   *models.QuoteSet
	agg      *Aggregator
}

func (s *Service) snapshot(ctx context.Context) (*snapshot, error) {
	holdings, err := s.Holdings(ctx)
	if err != nil {
		return nil, err
	}
	set, err := s.quotesFor(ctx, holdings, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve quotes: %w", err)
	}
	return &snapshot{holdings: holdings, quotes: set, agg: NewAggregator(set.Quotes)}, nil
}

// Metrics returns per-asset metrics in wallet order.
func (s *Service) Metrics(ctx context.Context) ([]models.AssetMetric, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.agg.Metrics(snap.holdings, s.logos), nil
}

// TotalAtMarket returns the market value of holdings matching category.
func (s *Service) TotalAtMarket(ctx context.Context, category string) (float64, error) {
	if models.FoldCategory(category) == "" {
		return 0, ErrInvalidCategory
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return snap.agg.TotalInvestedAtMarketPrice(snap.holdings, category)
}

// Rankings returns the top n holdings by margin.
func (s *Service) Rankings(ctx context.Context, kind models.RankKind, n int) ([]models.RankingEntry, error) {
	if _, err := models.ParseRankKind(string(kind)); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.topN
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.TopN(kind, snap.agg, snap.holdings, n), nil
}

// BestOrWorst returns the single best or worst holding by margin.
func (s *Service) BestOrWorst(ctx context.Context, kind models.RankKind) (models.RankingEntry, error) {
	if _, err := models.ParseRankKind(string(kind)); err != nil {
		return models.RankingEntry{}, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return models.RankingEntry{}, err
	}
	return ranking.BestOrWorst(kind, snap.agg, snap.holdings), nil
}

// Distribution groups the holdings by category.
func (s *Service) Distribution(ctx context.Context) (*models.Distribution, error) {
	holdings, err := s.Holdings(ctx)
	if err != nil {
		return nil, err
	}
	return Distribute(holdings), nil
}

// Summary assembles the dashboard. Upstream failures are logged and leave
// the affected fields nil; only cancellation of ctx is returned as an error.
func (s *Service) Summary(ctx context.Context) (*models.PortfolioSummary, error) {
	logger := s.logger
	if id := common.CorrelationID(ctx); id != "" {
		logger = logger.WithCorrelationId(id)
	}

	sum := &models.PortfolioSummary{Currency: common.ResolveDisplayCurrency(ctx, s.currency)}

	if totals, err := s.wallet.GetTotals(ctx); err != nil {
		logger.Warn().Err(err).Msg("Wallet totals unavailable")
	} else {
		sum.TotalInvested = ptr(totals.TotalInvested)
		sum.TotalDividends = ptr(totals.TotalDividends)
	}

	if perf, err := s.wallet.GetDividendPerformance(ctx); err != nil {
		logger.Warn().Err(err).Msg("Dividend performance unavailable")
	} else {
		sum.DividendPerformance = perf
	}

	if dist, err := s.wallet.GetDistribution(ctx); err != nil {
		logger.Warn().Err(err).Msg("Upstream distribution unavailable")
	} else {
		sum.UpstreamDistribution = dist
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	holdings, err := s.wallet.GetHoldings(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("Holdings unavailable, summary is partial")
		return sum, nil
	}
	sum.AssetCount = len(holdings)
	sum.Distribution = Distribute(holdings)

	set, err := s.quotesFor(ctx, holdings, false)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("Quotes unavailable, summary is partial")
		return sum, nil
	}
	sum.QuotesUpdatedAt = set.UpdatedAt
	agg := NewAggregator(set.Quotes)

	if market, err := agg.TotalInvestedAtMarketPrice(holdings, CategoryAll); err == nil {
		sum.MarketTotal = ptr(market)
		if sum.TotalInvested != nil {
			sum.ProfitLoss = ptr(market - *sum.TotalInvested)
		}
	}

	best := ranking.BestOrWorst(models.RankBest, agg, holdings)
	worst := ranking.BestOrWorst(models.RankWorst, agg, holdings)
	if !best.IsSentinel() {
		sum.Best = &best
		sum.Worst = &worst
	}
	sum.TopBest = ranking.TopN(models.RankBest, agg, holdings, s.topN)
	sum.TopWorst = ranking.TopN(models.RankWorst, agg, holdings, s.topN)

	logger.Debug().
		Int("assets", sum.AssetCount).
		Int("quotes", len(set.Quotes)).
		Bool("from_cache", set.FromCache).
		Msg("Portfolio summary built")

	return sum, nil
}

func ptr(v float64) *float64 { return &v }
