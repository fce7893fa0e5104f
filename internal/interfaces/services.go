package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/carteira/internal/models"
)

// QuoteCache owns the single persisted (quotes, timestamp) slot.
type QuoteCache interface {
	// Read never fails: a missing or malformed slot yields (nil, zero time).
	Read(ctx context.Context) ([]models.Quote, time.Time)

	// Write replaces the whole slot. There is no merge with previous contents.
	Write(ctx context.Context, quotes []models.Quote, at time.Time) error

	// IsFresh reports whether a slot written at ts is still valid at now.
	IsFresh(ts, now time.Time) bool
}

// QuoteService resolves quotes for a symbol list, preferring the cache.
type QuoteService interface {
	FetchQuotes(ctx context.Context, symbols []string) (*models.QuoteSet, error)

	// Refresh ignores freshness and refetches every symbol.
	Refresh(ctx context.Context, symbols []string) (*models.QuoteSet, error)

	// Cached returns whatever the cache holds without touching the network.
	Cached(ctx context.Context) *models.QuoteSet
}

// PortfolioService produces the dashboard views over holdings and quotes.
type PortfolioService interface {
	Holdings(ctx context.Context) ([]models.Holding, error)
	Quotes(ctx context.Context, forceRefresh bool) (*models.QuoteSet, error)
	Metrics(ctx context.Context) ([]models.AssetMetric, error)
	TotalAtMarket(ctx context.Context, category string) (float64, error)
	Rankings(ctx context.Context, kind models.RankKind, n int) ([]models.RankingEntry, error)
	BestOrWorst(ctx context.Context, kind models.RankKind) (models.RankingEntry, error)
	Distribution(ctx context.Context) (*models.Distribution, error)
	Summary(ctx context.Context) (*models.PortfolioSummary, error)
}

// ReportService renders year-end reports.
type ReportService interface {
	Generate(ctx context.Context, reportType models.ReportType, year int) (*models.Report, error)
}
