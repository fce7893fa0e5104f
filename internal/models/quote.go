package models

// Quote is a market snapshot for one symbol. Field names follow the quote
// provider's payload so cached arrays keep the provider's shape.
type Quote struct {
	Symbol        string  `json:"symbol"`
	ShortName     string  `json:"shortName,omitempty"`
	LongName      string  `json:"longName,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Price         float64 `json:"regularMarketPrice"`
	DayHigh       float64 `json:"regularMarketDayHigh,omitempty"`
	DayLow        float64 `json:"regularMarketDayLow,omitempty"`
	Change        float64 `json:"regularMarketChange,omitempty"`
	ChangePercent float64 `json:"regularMarketChangePercent,omitempty"`
	MarketTime    string  `json:"regularMarketTime,omitempty"`
	MarketCap     float64 `json:"marketCap,omitempty"`
	Volume        float64 `json:"regularMarketVolume,omitempty"`
	LogoURL       string  `json:"logourl,omitempty"`
}

// DisplayName returns the best available human name for the quote.
func (q Quote) DisplayName() string {
	if q.LongName != "" {
		return q.LongName
	}
	if q.ShortName != "" {
		return q.ShortName
	}
	return q.Symbol
}

// QuoteSet is a resolved quote array together with where it came from.
type QuoteSet struct {
	Quotes    []Quote `json:"quotes"`
	FromCache bool    `json:"from_cache"`
	UpdatedAt int64   `json:"updated_at"` // epoch milliseconds of the cache timestamp
}
