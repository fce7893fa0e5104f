// Package interfaces defines service contracts for Carteira
package interfaces

import (
	"context"

	"github.com/bobmcallan/carteira/internal/models"
)

// QuoteProvider fetches a single market quote.
type QuoteProvider interface {
	// GetQuote returns the first result the provider reports for symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// WalletClient reads holdings and upstream-computed aggregates from the wallet API.
type WalletClient interface {
	// GetHoldings returns every position, including treasury instruments.
	GetHoldings(ctx context.Context) ([]models.Holding, error)

	// GetAssetSymbols returns the raw symbol list as reported upstream.
	GetAssetSymbols(ctx context.Context) ([]string, error)

	GetTotals(ctx context.Context) (*models.WalletTotals, error)
	GetDividendPerformance(ctx context.Context) (*models.DividendPerformance, error)

	// GetDistribution returns the upstream category -> value map, untouched.
	GetDistribution(ctx context.Context) (map[string]float64, error)

	// Year-end statements used by reports
	GetWalletForYear(ctx context.Context, year int) ([]models.Holding, error)
	GetDividendsForYear(ctx context.Context, year int) ([]models.DividendRecord, error)
	GetTransactions(ctx context.Context) ([]models.Transaction, error)
}
