package wallet

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bobmcallan/carteira/internal/models"
)

// Upstream payloads keep the spreadsheet's Portuguese column names.

type holdingData struct {
	Symbol       string      `json:"Código de Negociação"`
	Quantity     flexFloat64 `json:"Quantidade"`
	Value        flexFloat64 `json:"Valor"`
	AveragePrice flexFloat64 `json:"Preço Médio"`
	Category     string      `json:"Tipo"`
}

type assetsResponse struct {
	Assets []string `json:"assets"`
}

type totalsData struct {
	TotalInvestido  flexFloat64 `json:"totalInvestido"`
	TotalDividendos flexFloat64 `json:"totalDividendos"`
}

type dividendPerformanceData struct {
	TotalInvested flexFloat64 `json:"totalInvested"`
	TotalReceived flexFloat64 `json:"totalReceived"`
	Performance   flexFloat64 `json:"performance"`
}

type dividendData struct {
	Asset    string      `json:"asset"`
	Amount   flexFloat64 `json:"amount"`
	Category string      `json:"category"`
}

type transactionData struct {
	TradeDate   string      `json:"Data do Negócio"`
	Movement    string      `json:"Tipo de Movimentação"`
	Market      string      `json:"Mercado"`
	Maturity    string      `json:"Prazo/Vencimento"`
	Institution string      `json:"Instituição"`
	Symbol      string      `json:"Código de Negociação"`
	Quantity    flexFloat64 `json:"Quantidade"`
	Price       flexFloat64 `json:"Preço"`
	Value       flexFloat64 `json:"Valor"`
	Month       flexFloat64 `json:"Mês"`
	Year        flexFloat64 `json:"Ano"`
}

func (t transactionData) toModel() models.Transaction {
	return models.Transaction{
		TradeDate:   t.TradeDate,
		Movement:    t.Movement,
		Market:      t.Market,
		Maturity:    t.Maturity,
		Institution: t.Institution,
		Symbol:      t.Symbol,
		Quantity:    float64(t.Quantity),
		Price:       float64(t.Price),
		Value:       float64(t.Value),
		Month:       int(t.Month),
		Year:        int(t.Year),
	}
}

func toHoldings(rows []holdingData) []models.Holding {
	out := make([]models.Holding, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Holding{
			Symbol:       strings.TrimSpace(r.Symbol),
			Quantity:     float64(r.Quantity),
			AveragePrice: float64(r.AveragePrice),
			Value:        float64(r.Value),
			Category:     strings.TrimSpace(r.Category),
		})
	}
	return out
}

// groupedThousands matches dot-only strings written with pt-BR thousand
// separators, such as "1.234" or "12.345.678".
var groupedThousands = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+$`)

// flexFloat64 accepts numbers, null and numeric strings. Strings are read the
// pt-BR way: a comma is the decimal separator and dots group thousands. A
// dot-only string is grouped thousands when every group after the first has
// three digits, and a plain decimal otherwise. "" and "-" read as 0.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cannot unmarshal %s into float64", string(data))
	}
	num, err := parseBRNumber(s)
	if err != nil {
		return err
	}
	*f = flexFloat64(num)
	return nil
}

func parseBRNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0, nil
	}
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case groupedThousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return num, nil
}
