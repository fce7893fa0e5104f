package models

// Profit is the gain or loss of a holding at the current price.
type Profit struct {
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// AssetMetric joins a Holding with its quote. Price-derived fields are nil
// when no quote is available, which is distinct from a zero value.
type AssetMetric struct {
	Holding
	Kind          CategoryKind `json:"kind"`
	Name          string       `json:"name,omitempty"`
	LogoURL       string       `json:"logo_url"`
	CurrentPrice  *float64     `json:"current_price"`
	CurrentValue  *float64     `json:"current_value"`
	ProfitAmount  *float64     `json:"profit_amount"`
	ProfitPercent *float64     `json:"profit_percent"`
}

// HasQuote reports whether a quote was resolved for the holding.
func (m AssetMetric) HasQuote() bool {
	return m.CurrentPrice != nil
}
