package quote

import (
	"strings"

	"github.com/bobmcallan/carteira/internal/models"
)

// SymbolsFor returns the symbols to price for holdings: canonical,
// de-duplicated in first-seen order, treasury instruments excluded.
func SymbolsFor(holdings []models.Holding) []string {
	seen := make(map[string]bool, len(holdings))
	out := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if h.IsTreasury() {
			continue
		}
		s := h.CanonicalSymbol()
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// CleanSymbols canonicalises a raw symbol list and drops treasury entries,
// which the wallet API lists by name ("Tesouro Selic 2029").
func CleanSymbols(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if strings.Contains(models.FoldCategory(r), "tesouro") {
			continue
		}
		s := models.CanonicalSymbol(r)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
