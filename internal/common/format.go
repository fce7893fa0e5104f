package common

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Placeholder is rendered wherever a figure is unavailable. It is never "0".
const Placeholder = "--"

// PercentDecimals is the number of decimals used for percentages by default.
const PercentDecimals = 3

// FormatAmount renders amount in the currency's template with its minor-unit
// precision, e.g. 1234.5 BRL -> "R$1.234,50". Unknown codes fall back to BRL.
// Rounding happens here only, never in intermediate sums.
func FormatAmount(amount float64, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(money.BRL)
	}

	minor := decimal.NewFromFloat(amount).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(minor.IntPart(), cur.Code).Display()
}

// FormatAmountPtr renders an optional amount, using the placeholder for nil.
func FormatAmountPtr(amount *float64, currency string) string {
	if amount == nil {
		return Placeholder
	}
	return FormatAmount(*amount, currency)
}

// FormatPercentage renders p with a fixed number of decimals and a trailing "%".
func FormatPercentage(p float64, decimals int) string {
	if decimals < 0 {
		decimals = PercentDecimals
	}
	return decimal.NewFromFloat(p).StringFixed(int32(decimals)) + "%"
}

// FormatPercentagePtr renders an optional percentage, using the placeholder for nil.
func FormatPercentagePtr(p *float64, decimals int) string {
	if p == nil {
		return Placeholder
	}
	return FormatPercentage(*p, decimals)
}
