package models

// WalletTotals are upstream-computed totals. They are displayed, never recomputed.
type WalletTotals struct {
	TotalInvested  float64 `json:"total_invested"`
	TotalDividends float64 `json:"total_dividends"`
}

// DividendPerformance is the upstream dividend yield summary.
type DividendPerformance struct {
	TotalInvested float64 `json:"total_invested"`
	TotalReceived float64 `json:"total_received"`
	Performance   float64 `json:"performance"`
}

// CategoryGroup is one category of the portfolio distribution.
type CategoryGroup struct {
	Category      string       `json:"category"`
	Kind          CategoryKind `json:"kind"`
	Count         int          `json:"count"`
	TotalInvested float64      `json:"total_invested"`
	Allocation    float64      `json:"allocation_pct"`
	Holdings      []Holding    `json:"holdings"`
}

// Distribution groups holdings by category.
type Distribution struct {
	Groups        []CategoryGroup `json:"groups"`
	TotalInvested float64         `json:"total_invested"`
}

// PortfolioSummary is the dashboard view. Pointer and slice fields are nil
// when the upstream figure could not be obtained.
type PortfolioSummary struct {
	AssetCount           int                  `json:"asset_count"`
	Currency             string               `json:"currency"`
	TotalInvested        *float64             `json:"total_invested"`
	TotalDividends       *float64             `json:"total_dividends"`
	MarketTotal          *float64             `json:"market_total"`
	ProfitLoss           *float64             `json:"profit_loss"`
	Best                 *RankingEntry        `json:"best"`
	Worst                *RankingEntry        `json:"worst"`
	TopBest              []RankingEntry       `json:"top_best"`
	TopWorst             []RankingEntry       `json:"top_worst"`
	DividendPerformance  *DividendPerformance `json:"dividend_performance"`
	UpstreamDistribution map[string]float64   `json:"upstream_distribution,omitempty"`
	Distribution         *Distribution        `json:"distribution"`
	QuotesUpdatedAt      int64                `json:"quotes_updated_at,omitempty"`
}
