package quote

import (
	"reflect"
	"testing"

	"github.com/bobmcallan/carteira/internal/models"
)

func TestSymbolsFor(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "PETR4F", Category: "Ações"},
		{Symbol: "Tesouro Selic 2029", Category: "Tesouro Direto"},
		{Symbol: "PETR4", Category: "Ações"},
		{Symbol: "MXRF11", Category: "FIIs"},
	}
	got := SymbolsFor(holdings)
	want := []string{"PETR4", "MXRF11"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SymbolsFor = %v, want %v", got, want)
	}
}

func TestCleanSymbols(t *testing.T) {
	got := CleanSymbols([]string{"ITSA4F", "Tesouro IPCA+ 2035", "itsa4", "KNCR11"})
	want := []string{"ITSA4", "KNCR11"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanSymbols = %v, want %v", got, want)
	}
}
