// Package portfolio joins holdings with market quotes and computes per-asset
// and portfolio-wide metrics.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bobmcallan/carteira/internal/models"
)

// CategoryAll selects every holding.
const CategoryAll = "all"

var (
	// ErrInvalidCategory is returned for an empty category filter.
	ErrInvalidCategory = errors.New("invalid category filter")

	// ErrUnknownCategory is returned when a filter names no known kind and
	// matches no holding.
	ErrUnknownCategory = errors.New("unknown category")
)

var knownKinds = map[string]bool{
	models.FoldCategory(string(models.CategoryEquity)):           true,
	models.FoldCategory(string(models.CategoryRealEstateFund)):   true,
	models.FoldCategory(string(models.CategoryAgribusinessFund)): true,
	models.FoldCategory(string(models.CategoryTreasury)):         true,
	models.FoldCategory(string(models.CategoryOther)):            true,
}

// Aggregator answers price and profit questions against one quote snapshot.
// It is immutable and safe for concurrent use.
type Aggregator struct {
	quotes map[string]models.Quote
}

// NewAggregator indexes quotes by symbol. When a symbol appears more than
// once the first entry wins.
func NewAggregator(quotes []models.Quote) *Aggregator {
	idx := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		if _, dup := idx[q.Symbol]; !dup {
			idx[q.Symbol] = q
		}
	}
	return &Aggregator{quotes: idx}
}

// QuoteFor returns the quote for symbol's canonical form.
func (a *Aggregator) QuoteFor(symbol string) (models.Quote, bool) {
	q, ok := a.quotes[models.CanonicalSymbol(symbol)]
	return q, ok
}

// CurrentPriceFor returns the market price for symbol. ok is false when no
// quote exists, which callers must not treat as a zero price.
func (a *Aggregator) CurrentPriceFor(symbol string) (price float64, ok bool) {
	q, ok := a.QuoteFor(symbol)
	if !ok || math.IsNaN(q.Price) || math.IsInf(q.Price, 0) {
		return 0, false
	}
	return q.Price, true
}

// ProfitFor computes the gain of h at the current price. ok is false when
// the symbol has no quote. A zero cost basis yields a zero percent.
func (a *Aggregator) ProfitFor(h models.Holding) (models.Profit, bool) {
	price, ok := a.CurrentPriceFor(h.Symbol)
	if !ok {
		return models.Profit{}, false
	}
	return computeProfit(price, h.Quantity, h.AveragePrice), true
}

func computeProfit(price, quantity, avgPrice float64) models.Profit {
	cost := avgPrice * quantity
	amount := price*quantity - cost
	percent := 0.0
	if cost != 0 {
		percent = amount / cost * 100
	}
	return models.Profit{Amount: amount, Percent: percent}
}

// TotalInvestedAtMarketPrice sums the market value of holdings selected by
// category. Treasury instruments contribute their stored Value and are never
// repriced. Other holdings without a quote are left out of the total.
//
// category is "all", a raw upstream category ("Ações") or a kind name
// ("equity"), compared case and accent insensitively.
func (a *Aggregator) TotalInvestedAtMarketPrice(holdings []models.Holding, category string) (float64, error) {
	filter := models.FoldCategory(category)
	if filter == "" {
		return 0, ErrInvalidCategory
	}

	total := 0.0
	matched := 0
	for _, h := range holdings {
		if !matchesCategory(h, filter) {
			continue
		}
		matched++

		if h.IsTreasury() {
			total += h.Value
			continue
		}
		price, ok := a.CurrentPriceFor(h.Symbol)
		if !ok {
			continue
		}
		total += price * h.Quantity
	}

	if matched == 0 && filter != CategoryAll && !knownKinds[filter] {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, strings.TrimSpace(category))
	}
	return total, nil
}

func matchesCategory(h models.Holding, filter string) bool {
	if filter == CategoryAll {
		return true
	}
	if models.FoldCategory(h.Category) == filter {
		return true
	}
	return models.FoldCategory(string(h.Kind())) == filter
}

// Metrics builds an AssetMetric for every holding, in input order.
func (a *Aggregator) Metrics(holdings []models.Holding, logos LogoResolver) []models.AssetMetric {
	out := make([]models.AssetMetric, 0, len(holdings))
	for _, h := range holdings {
		m := models.AssetMetric{Holding: h, Kind: h.Kind()}

		q, hasQuote := a.QuoteFor(h.Symbol)
		if hasQuote {
			m.Name = q.DisplayName()
		}
		var quote *models.Quote
		if hasQuote {
			quote = &q
		}
		m.LogoURL = logos.Resolve(h, quote)

		if price, ok := a.CurrentPriceFor(h.Symbol); ok {
			p := computeProfit(price, h.Quantity, h.AveragePrice)
			value := price * h.Quantity
			m.CurrentPrice = &price
			m.CurrentValue = &value
			m.ProfitAmount = &p.Amount
			m.ProfitPercent = &p.Percent
		}
		out = append(out, m)
	}
	return out
}
