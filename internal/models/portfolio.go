// Package models defines data structures for Carteira
package models

import (
	"strings"
)

// Holding is one portfolio position as reported by the wallet API.
// Value is accepted as given; it is not reconciled against Quantity*AveragePrice.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
	Value        float64 `json:"value"`
	Category     string  `json:"category"`
}

// CanonicalSymbol returns the holding's symbol without its fractional-lot suffix.
func (h Holding) CanonicalSymbol() string {
	return CanonicalSymbol(h.Symbol)
}

// Kind returns the classified category of the holding.
func (h Holding) Kind() CategoryKind {
	return ClassifyCategory(h.Category)
}

// IsTreasury reports whether the holding is a treasury instrument, which is
// valued at its stored Value and never repriced.
func (h Holding) IsTreasury() bool {
	return h.Kind() == CategoryTreasury
}

// CanonicalSymbol normalises a ticker and strips a single fractional-lot
// marker: a trailing "F" directly after a digit ("PETR4F" -> "PETR4").
// Applying it twice yields the same result as applying it once.
func CanonicalSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	n := len(s)
	if n >= 2 && s[n-1] == 'F' && s[n-2] >= '0' && s[n-2] <= '9' {
		return s[:n-1]
	}
	return s
}

// CategoryKind is the normalised asset category.
type CategoryKind string

const (
	CategoryEquity           CategoryKind = "equity"
	CategoryRealEstateFund   CategoryKind = "real_estate_fund"
	CategoryAgribusinessFund CategoryKind = "agribusiness_fund"
	CategoryTreasury         CategoryKind = "treasury"
	CategoryOther            CategoryKind = "other"
)

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e",
	"í", "i", "ì", "i", "î", "i",
	"ó", "o", "ô", "o", "õ", "o", "ò", "o",
	"ú", "u", "ù", "u", "ü", "u",
	"ç", "c",
)

// FoldCategory lower-cases and strips accents and separators so "Ações",
// "acoes" and "ACOES" compare equal.
func FoldCategory(raw string) string {
	s := accentFolder.Replace(strings.ToLower(strings.TrimSpace(raw)))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// ClassifyCategory maps an upstream category tag ("Ações", "FIIs", "Fiagro",
// "Tesouro Direto", ...) onto a CategoryKind.
func ClassifyCategory(raw string) CategoryKind {
	s := FoldCategory(raw)
	switch {
	case s == "":
		return CategoryOther
	case strings.Contains(s, "tesouro"), strings.Contains(s, "treasury"):
		return CategoryTreasury
	case strings.Contains(s, "fiagro"), strings.Contains(s, "agribusiness"), strings.Contains(s, "agro"):
		return CategoryAgribusinessFund
	case strings.Contains(s, "fii"), strings.Contains(s, "imobiliari"), strings.Contains(s, "real estate"):
		return CategoryRealEstateFund
	case strings.Contains(s, "acao"), strings.Contains(s, "acoes"), strings.Contains(s, "equity"),
		strings.Contains(s, "stock"), strings.Contains(s, "share"):
		return CategoryEquity
	default:
		return CategoryOther
	}
}
