package portfolio

import (
	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/models"
)

// LogoResolver picks a logo URL for a holding.
type LogoResolver struct {
	Treasury       string
	RealEstateFund string
	Fallback       string
}

// NewLogoResolver builds a resolver from the [logos] config section.
func NewLogoResolver(cfg common.LogoConfig) LogoResolver {
	return LogoResolver{Treasury: cfg.Treasury, RealEstateFund: cfg.RealEstateFund, Fallback: cfg.Fallback}
}

// Resolve returns the treasury or real estate fund logo for those kinds,
// otherwise the quote's logo, otherwise the fallback.
func (r LogoResolver) Resolve(h models.Holding, quote *models.Quote) string {
	switch h.Kind() {
	case models.CategoryTreasury:
		if r.Treasury != "" {
			return r.Treasury
		}
	case models.CategoryRealEstateFund:
		if r.RealEstateFund != "" {
			return r.RealEstateFund
		}
	}
	if quote != nil && quote.LogoURL != "" {
		return quote.LogoURL
	}
	return r.Fallback
}
