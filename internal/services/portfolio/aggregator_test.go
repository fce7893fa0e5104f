package portfolio

import (
	"errors"
	"math"
	"testing"

	"github.com/bobmcallan/carteira/internal/models"
)

func TestProfitFor(t *testing.T) {
	agg := NewAggregator([]models.Quote{{Symbol: "PETR4", Price: 12}})

	p, ok := agg.ProfitFor(models.Holding{Symbol: "PETR4", Quantity: 100, AveragePrice: 10})
	if !ok {
		t.Fatal("expected quote for PETR4")
	}
	if p.Amount != 200 {
		t.Errorf("amount = %v, want 200", p.Amount)
	}
	if p.Percent != 20 {
		t.Errorf("percent = %v, want 20", p.Percent)
	}
}

func TestProfitFor_FractionalSymbol(t *testing.T) {
	agg := NewAggregator([]models.Quote{{Symbol: "PETR4", Price: 12}})
	if _, ok := agg.ProfitFor(models.Holding{Symbol: "petr4f", Quantity: 1, AveragePrice: 10}); !ok {
		t.Error("fractional lot should resolve to the base quote")
	}
}

func TestProfitFor_ZeroCostBasis(t *testing.T) {
	agg := NewAggregator([]models.Quote{{Symbol: "A", Price: 12}})

	for _, h := range []models.Holding{
		{Symbol: "A", Quantity: 10, AveragePrice: 0},
		{Symbol: "A", Quantity: 0, AveragePrice: 10},
	} {
		p, ok := agg.ProfitFor(h)
		if !ok {
			t.Fatal("expected quote")
		}
		if p.Percent != 0 || math.IsNaN(p.Percent) || math.IsInf(p.Percent, 0) {
			t.Errorf("percent = %v, want 0", p.Percent)
		}
	}
}

func TestProfitFor_NoQuote(t *testing.T) {
	agg := NewAggregator(nil)
	if _, ok := agg.ProfitFor(models.Holding{Symbol: "VALE3", Quantity: 1, AveragePrice: 1}); ok {
		t.Error("expected unavailable profit")
	}
	if _, ok := agg.CurrentPriceFor("VALE3"); ok {
		t.Error("expected unavailable price")
	}
}

func TestEndToEndScenario(t *testing.T) {
	holdings := []models.Holding{{Symbol: "AAA", Quantity: 10, AveragePrice: 5, Category: "equity"}}
	agg := NewAggregator([]models.Quote{{Symbol: "AAA", Price: 6}})

	total, err := agg.TotalInvestedAtMarketPrice(holdings, "all")
	if err != nil {
		t.Fatal(err)
	}
	if total != 60 {
		t.Errorf("total = %v, want 60", total)
	}

	p, ok := agg.ProfitFor(holdings[0])
	if !ok || p.Amount != 10 || p.Percent != 20 {
		t.Errorf("profit = %+v ok=%v, want {10 20}", p, ok)
	}
}

func TestTotal_TreasuryBypass(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "Tesouro Selic 2029", Quantity: 1, Value: 1000, Category: "treasury"},
		{Symbol: "NOQUOTE3", Quantity: 5, AveragePrice: 10, Value: 50, Category: "Ações"},
	}
	total, err := NewAggregator(nil).TotalInvestedAtMarketPrice(holdings, "all")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1000 {
		t.Errorf("total = %v, want 1000", total)
	}
}

func TestTotal_TreasuryNotRepriced(t *testing.T) {
	// A quote sharing the treasury symbol must not be used
	holdings := []models.Holding{{Symbol: "TESOURO", Quantity: 2, Value: 500, Category: "Tesouro Direto"}}
	total, _ := NewAggregator([]models.Quote{{Symbol: "TESOURO", Price: 9999}}).TotalInvestedAtMarketPrice(holdings, "all")
	if total != 500 {
		t.Errorf("total = %v, want 500", total)
	}
}

func TestTotal_CategoryFilter(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "PETR4", Quantity: 10, Category: "Ações"},
		{Symbol: "HGLG11", Quantity: 2, Category: "FIIs"},
		{Symbol: "Tesouro IPCA", Value: 300, Category: "Tesouro Direto"},
	}
	agg := NewAggregator([]models.Quote{
		{Symbol: "PETR4", Price: 30},
		{Symbol: "HGLG11", Price: 160},
	})

	tests := []struct {
		filter string
		want   float64
	}{
		{"all", 300 + 320 + 300},
		{"ALL", 920},
		{"Ações", 300},
		{"acoes", 300},
		{"equity", 300},
		{"fiis", 320},
		{"real_estate_fund", 320},
		{"treasury", 300},
		{"agribusiness_fund", 0},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got, err := agg.TotalInvestedAtMarketPrice(holdings, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("total(%q) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestTotal_InvalidFilters(t *testing.T) {
	agg := NewAggregator(nil)
	if _, err := agg.TotalInvestedAtMarketPrice(nil, "  "); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("empty filter: err = %v, want ErrInvalidCategory", err)
	}
	if _, err := agg.TotalInvestedAtMarketPrice(nil, "crypto"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("unknown filter: err = %v, want ErrUnknownCategory", err)
	}
}

func TestMetrics(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "PETR4", Quantity: 10, AveragePrice: 20, Category: "Ações"},
		{Symbol: "MXRF11", Quantity: 100, AveragePrice: 10, Category: "FIIs"},
		{Symbol: "Tesouro Selic", Value: 100, Category: "Tesouro Direto"},
	}
	agg := NewAggregator([]models.Quote{{Symbol: "PETR4", Price: 25, LongName: "Petrobras", LogoURL: "https://x/petr4.svg"}})
	logos := LogoResolver{Treasury: "/t.png", RealEstateFund: "/fii.png", Fallback: "/f.png"}

	got := agg.Metrics(holdings, logos)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	petr := got[0]
	if !petr.HasQuote() || *petr.CurrentValue != 250 || *petr.ProfitAmount != 50 || *petr.ProfitPercent != 25 {
		t.Errorf("PETR4 metric = %+v", petr)
	}
	if petr.LogoURL != "https://x/petr4.svg" || petr.Kind != models.CategoryEquity {
		t.Errorf("PETR4 logo/kind = %q/%q", petr.LogoURL, petr.Kind)
	}

	if got[1].HasQuote() || got[1].ProfitPercent != nil {
		t.Error("MXRF11 should have no price-derived fields")
	}
	if got[1].LogoURL != "/fii.png" {
		t.Errorf("MXRF11 logo = %q", got[1].LogoURL)
	}
	if got[2].LogoURL != "/t.png" {
		t.Errorf("treasury logo = %q", got[2].LogoURL)
	}
}

func TestLogoResolver_Fallback(t *testing.T) {
	r := LogoResolver{Fallback: "/fallback-logo.png"}
	h := models.Holding{Symbol: "VALE3", Category: "Ações"}

	if got := r.Resolve(h, nil); got != "/fallback-logo.png" {
		t.Errorf("no quote: %q", got)
	}
	if got := r.Resolve(h, &models.Quote{Symbol: "VALE3"}); got != "/fallback-logo.png" {
		t.Errorf("quote without logo: %q", got)
	}
}
