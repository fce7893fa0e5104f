package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/models"
)

// FormatQuotes renders a quote set as a markdown table.
func FormatQuotes(set *models.QuoteSet, currency string) string {
	var sb strings.Builder
	sb.WriteString("# Quotes\n\n")
	sb.WriteString(quotesSource(set) + "\n\n")

	if len(set.Quotes) == 0 {
		sb.WriteString("No quotes available.\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Name | Price | Change | Day Range |\n")
	sb.WriteString("|--------|------|-------|--------|-----------|\n")
	for _, q := range set.Quotes {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s - %s |\n",
			q.Symbol,
			q.DisplayName(),
			common.FormatAmount(q.Price, currency),
			common.FormatPercentage(q.ChangePercent, 2),
			common.FormatAmount(q.DayLow, currency),
			common.FormatAmount(q.DayHigh, currency),
		)
	}
	return sb.String()
}

func quotesSource(set *models.QuoteSet) string {
	src := "provider"
	if set.FromCache {
		src = "cache"
	}
	if set.UpdatedAt == 0 {
		return fmt.Sprintf("_Source: %s_", src)
	}
	at := common.FromUnixMilli(set.UpdatedAt).Local().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("_Source: %s, updated %s_", src, at)
}

// FormatMetrics renders per-asset metrics. Missing quotes show a placeholder.
func FormatMetrics(metrics []models.AssetMetric, currency string) string {
	var sb strings.Builder
	sb.WriteString("# Asset Metrics\n\n")
	if len(metrics) == 0 {
		sb.WriteString("No holdings.\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Category | Qty | Avg Price | Price | Value | Profit | Profit % |\n")
	sb.WriteString("|--------|----------|-----|-----------|-------|-------|--------|----------|\n")
	for _, m := range metrics {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			m.Symbol,
			m.Category,
			strconv.FormatFloat(m.Quantity, 'f', -1, 64),
			common.FormatAmount(m.AveragePrice, currency),
			common.FormatAmountPtr(m.CurrentPrice, currency),
			common.FormatAmountPtr(m.CurrentValue, currency),
			common.FormatAmountPtr(m.ProfitAmount, currency),
			common.FormatPercentagePtr(m.ProfitPercent, common.PercentDecimals),
		)
	}
	return sb.String()
}

// FormatRankings renders a ranking list. A lone sentinel reads as "no data".
func FormatRankings(kind models.RankKind, entries []models.RankingEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Performers\n\n", titleCase(string(kind)))

	if len(entries) == 0 || (len(entries) == 1 && entries[0].IsSentinel()) {
		sb.WriteString("No holdings with quotes to rank.\n")
		return sb.String()
	}

	sb.WriteString("| # | Symbol | Margin | Category | Qty | Avg Price |\n")
	sb.WriteString("|---|--------|--------|----------|-----|-----------|\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %.2f |\n",
			i+1, e.Symbol,
			common.FormatPercentage(e.Margin, common.PercentDecimals),
			e.Category,
			strconv.FormatFloat(e.Quantity, 'f', -1, 64),
			e.AvgPrice,
		)
	}
	return sb.String()
}

// FormatTotal renders the market-price total for a category filter.
func FormatTotal(category string, total float64, currency string) string {
	return fmt.Sprintf("# Total at Market Price\n\n**Category:** %s\n**Total:** %s\n", category, common.FormatAmount(total, currency))
}

// FormatSummary renders the dashboard view.
func FormatSummary(s *models.PortfolioSummary) string {
	cur := s.Currency
	var sb strings.Builder

	sb.WriteString("# Portfolio Summary\n\n")
	fmt.Fprintf(&sb, "**Assets:** %d\n", s.AssetCount)
	fmt.Fprintf(&sb, "**Total Invested:** %s\n", common.FormatAmountPtr(s.TotalInvested, cur))
	fmt.Fprintf(&sb, "**Market Value:** %s\n", common.FormatAmountPtr(s.MarketTotal, cur))
	fmt.Fprintf(&sb, "**Profit/Loss:** %s\n", common.FormatAmountPtr(s.ProfitLoss, cur))
	fmt.Fprintf(&sb, "**Dividends:** %s\n", common.FormatAmountPtr(s.TotalDividends, cur))
	if s.QuotesUpdatedAt > 0 {
		fmt.Fprintf(&sb, "**Quotes Updated:** %s\n", common.FromUnixMilli(s.QuotesUpdatedAt).Local().Format(time.DateTime))
	}
	sb.WriteString("\n")

	if p := s.DividendPerformance; p != nil {
		sb.WriteString("## Dividend Performance\n\n")
		fmt.Fprintf(&sb, "- Invested: %s\n", common.FormatAmount(p.TotalInvested, cur))
		fmt.Fprintf(&sb, "- Received: %s\n", common.FormatAmount(p.TotalReceived, cur))
		fmt.Fprintf(&sb, "- Yield: %s\n\n", common.FormatPercentage(p.Performance, 2))
	}

	sb.WriteString("## Performance\n\n")
	fmt.Fprintf(&sb, "- Best: %s\n", entryLine(s.Best))
	fmt.Fprintf(&sb, "- Worst: %s\n\n", entryLine(s.Worst))

	if len(s.TopBest) > 0 && !s.TopBest[0].IsSentinel() {
		sb.WriteString(strings.Replace(FormatRankings(models.RankBest, s.TopBest), "# ", "### ", 1))
		sb.WriteString("\n")
		sb.WriteString(strings.Replace(FormatRankings(models.RankWorst, s.TopWorst), "# ", "### ", 1))
		sb.WriteString("\n")
	}

	if d := s.Distribution; d != nil && len(d.Groups) > 0 {
		sb.WriteString("## Distribution\n\n")
		sb.WriteString("| Category | Assets | Invested | Allocation |\n")
		sb.WriteString("|----------|--------|----------|------------|\n")
		for _, g := range d.Groups {
			fmt.Fprintf(&sb, "| %s | %d | %s | %s |\n",
				g.Category, g.Count, common.FormatAmount(g.TotalInvested, cur), common.FormatPercentage(g.Allocation, 2))
		}
	}
	return sb.String()
}

func entryLine(e *models.RankingEntry) string {
	if e == nil || e.IsSentinel() {
		return common.Placeholder
	}
	return fmt.Sprintf("%s (%s)", e.Symbol, common.FormatPercentage(e.Margin, common.PercentDecimals))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
