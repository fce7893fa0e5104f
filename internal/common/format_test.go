package common

import "testing"

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{"brl thousands", 1234.5, "BRL", "R$1.234,50"},
		{"brl rounds half up", 10.005, "brl", "R$10,01"},
		{"usd", 99.9, "USD", "$99.90"},
		{"unknown falls back to brl", 1, "XXX-NOPE", "R$1,00"},
		{"negative", -200, "BRL", "-R$200,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.amount, tt.currency); got != tt.want {
				t.Errorf("FormatAmount(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	if got := FormatPercentage(20, 3); got != "20.000%" {
		t.Errorf("FormatPercentage(20, 3) = %q", got)
	}
	if got := FormatPercentage(-1.23456, 2); got != "-1.23%" {
		t.Errorf("FormatPercentage(-1.23456, 2) = %q", got)
	}
	if got := FormatPercentage(5, -1); got != "5.000%" {
		t.Errorf("FormatPercentage(5, -1) = %q", got)
	}
}

func TestFormatPtr_Placeholder(t *testing.T) {
	if got := FormatAmountPtr(nil, "BRL"); got != Placeholder {
		t.Errorf("FormatAmountPtr(nil) = %q", got)
	}
	if got := FormatPercentagePtr(nil, 2); got != Placeholder {
		t.Errorf("FormatPercentagePtr(nil) = %q", got)
	}
	zero := 0.0
	if got := FormatAmountPtr(&zero, "BRL"); got != "R$0,00" {
		t.Errorf("FormatAmountPtr(0) = %q, zero must not collapse to placeholder", got)
	}
}
