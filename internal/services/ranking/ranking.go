// Package ranking orders holdings by profit margin.
package ranking

import (
	"sort"

	"github.com/bobmcallan/carteira/internal/models"
)

// DefaultTopN is used when TopN receives a non-positive n.
const DefaultTopN = 3

// Profiter resolves the profit of a holding. ok is false when the holding
// has no quote, which excludes it from every ranking.
type Profiter interface {
	ProfitFor(h models.Holding) (models.Profit, bool)
}

// Entries returns a ranking entry for each holding with a quote, in input order.
func Entries(p Profiter, holdings []models.Holding) []models.RankingEntry {
	out := make([]models.RankingEntry, 0, len(holdings))
	for _, h := range holdings {
		profit, ok := p.ProfitFor(h)
		if !ok {
			continue
		}
		out = append(out, models.RankingEntry{
			Symbol:   h.Symbol,
			Margin:   profit.Percent,
			Category: h.Category,
			Quantity: h.Quantity,
			AvgPrice: h.AveragePrice,
		})
	}
	return out
}

// BestOrWorst returns the single highest (best) or lowest (worst) margin.
// On ties the earliest holding wins. With no qualifying holding the zero
// sentinel is returned.
func BestOrWorst(kind models.RankKind, p Profiter, holdings []models.Holding) models.RankingEntry {
	entries := Entries(p, holdings)
	if len(entries) == 0 {
		return models.SentinelEntry()
	}

	pick := entries[0]
	for _, e := range entries[1:] {
		if (kind == models.RankWorst && e.Margin < pick.Margin) ||
			(kind != models.RankWorst && e.Margin > pick.Margin) {
			pick = e
		}
	}
	return pick
}

// TopN returns up to n entries sorted by margin, descending for best and
// ascending for worst. Equal margins keep input order. With no qualifying
// holding the result is a one-element slice holding the zero sentinel.
func TopN(kind models.RankKind, p Profiter, holdings []models.Holding, n int) []models.RankingEntry {
	if n <= 0 {
		n = DefaultTopN
	}

	entries := Entries(p, holdings)
	if len(entries) == 0 {
		return []models.RankingEntry{models.SentinelEntry()}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if kind == models.RankWorst {
			return entries[i].Margin < entries[j].Margin
		}
		return entries[i].Margin > entries[j].Margin
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
