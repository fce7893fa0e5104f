package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/models"
)

var (
	assetsHeader = []string{
		"Código",
		"Quantidade em 31/12",
		"Total Investido",
		"Preço Médio",
		"Categoria de Ativo",
	}
	dividendsHeader = []string{
		"Código",
		"Total Recebido",
		"Categoria de Distribuição",
	}
	transactionsHeader = []string{
		"Data do Negócio",
		"Tipo de Movimentação",
		"Instituição",
		"Código de Negociação",
		"Quantidade",
		"Preço Unitário",
		"Total",
	}
)

// Layouts accepted for upstream trade dates, tried in order.
var tradeDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

func writeTable(sb *strings.Builder, header []string, rows [][]string) {
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i, h := range header {
		sep[i] = strings.Repeat("-", max(3, len([]rune(h))))
	}
	sb.WriteString("|" + strings.Join(sep, "|") + "|\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeCell(c)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// formatTradeDate renders an upstream date as DD/MM/YYYY. Unparseable input
// is returned unchanged.
func formatTradeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range tradeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}

func formatAssets(sb *strings.Builder, year int, holdings []models.Holding, currency string) {
	fmt.Fprintf(sb, "## Posição em 31/12/%d\n\n", year)
	if len(holdings) == 0 {
		sb.WriteString("_Nenhum ativo encontrado._\n\n")
		return
	}
	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{
			h.Symbol,
			formatQuantity(h.Quantity),
			common.FormatAmount(h.Value, currency),
			common.FormatAmount(h.AveragePrice, currency),
			h.Category,
		})
	}
	writeTable(sb, assetsHeader, rows)
}

func formatDividends(sb *strings.Builder, year int, dividends []models.DividendRecord, currency string) {
	fmt.Fprintf(sb, "## Proventos Recebidos em %d\n\n", year)
	if len(dividends) == 0 {
		sb.WriteString("_Nenhum provento encontrado._\n\n")
		return
	}
	total := 0.0
	rows := make([][]string, 0, len(dividends)+1)
	for _, d := range dividends {
		total += d.Amount
		rows = append(rows, []string{d.Asset, common.FormatAmount(d.Amount, currency), d.Category})
	}
	rows = append(rows, []string{"**Total**", "**" + common.FormatAmount(total, currency) + "**", ""})
	writeTable(sb, dividendsHeader, rows)
}

func formatTransactions(sb *strings.Builder, txs []models.Transaction, currency string) {
	sb.WriteString("## Movimentações\n\n")
	if len(txs) == 0 {
		sb.WriteString("_Nenhuma movimentação encontrada._\n\n")
		return
	}
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, []string{
			formatTradeDate(t.TradeDate),
			t.Movement,
			t.Institution,
			t.Symbol,
			formatQuantity(t.Quantity),
			common.FormatAmount(t.Price, currency),
			common.FormatAmount(t.Value, currency),
		})
	}
	writeTable(sb, transactionsHeader, rows)
}
