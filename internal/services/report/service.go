// Package report renders year-end statements from wallet data as markdown.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/models"
)

// ErrInvalidReportType is returned for a type outside models.ReportTypes.
var ErrInvalidReportType = errors.New("invalid report type")

var fileNames = map[models.ReportType]string{
	models.ReportComplete:          "completo",
	models.ReportAssetTransactions: "transacoes",
	models.ReportDividend:          "dividendos",
	models.ReportAssets:            "ativos",
}

var titles = map[models.ReportType]string{
	models.ReportComplete:          "Relatório Completo",
	models.ReportAssetTransactions: "Relatório de Movimentações",
	models.ReportDividend:          "Relatório de Proventos",
	models.ReportAssets:            "Relatório de Ativos",
}

// Service implements interfaces.ReportService.
type Service struct {
	wallet   interfaces.WalletClient
	currency string
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

var _ interfaces.ReportService = (*Service)(nil)

// NewService creates a report service that formats amounts in currency.
func NewService(wallet interfaces.WalletClient, currency string, logger *common.Logger) *Service {
	if currency == "" {
		currency = "BRL"
	}
	return &Service{wallet: wallet, currency: currency, logger: logger, now: time.Now}
}

// ParseReportType validates a report type name.
func ParseReportType(s string) (models.ReportType, error) {
	t := models.ReportType(strings.TrimSpace(s))
	if _, ok := fileNames[t]; !ok {
		return "", fmt.Errorf("%w %q", ErrInvalidReportType, s)
	}
	return t, nil
}

// FileName returns report_<name>_<M.yyyy-hhmm>.md for t generated at at.
func FileName(t models.ReportType, at time.Time) string {
	return fmt.Sprintf("report_%s_%d.%d-%02d%02d.md", fileNames[t], int(at.Month()), at.Year(), at.Hour(), at.Minute())
}

// Generate fetches the data for reportType and renders it. year defaults to
// the current year; it does not affect the transactions table, which lists
// every movement.
func (s *Service) Generate(ctx context.Context, reportType models.ReportType, year int) (*models.Report, error) {
	if _, ok := fileNames[reportType]; !ok {
		return nil, fmt.Errorf("%w %q", ErrInvalidReportType, reportType)
	}

	now := s.now()
	if year <= 0 {
		year = now.Year()
	}
	currency := common.ResolveDisplayCurrency(ctx, s.currency)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s %d\n\n", titles[reportType], year)
	fmt.Fprintf(&sb, "Gerado em %s\n\n", now.Format("02/01/2006 15:04"))

	if reportType == models.ReportComplete || reportType == models.ReportAssets {
		holdings, err := s.wallet.GetWalletForYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to get wallet for %d: %w", year, err)
		}
		formatAssets(&sb, year, holdings, currency)
	}

	if reportType == models.ReportComplete || reportType == models.ReportDividend {
		dividends, err := s.wallet.GetDividendsForYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to get dividends for %d: %w", year, err)
		}
		formatDividends(&sb, year, dividends, currency)
	}

	if reportType == models.ReportAssetTransactions {
		txs, err := s.wallet.GetTransactions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get transactions: %w", err)
		}
		formatTransactions(&sb, txs, currency)
	}

	report := &models.Report{
		Type:        reportType,
		Year:        year,
		FileName:    FileName(reportType, now),
		Markdown:    sb.String(),
		GeneratedAt: now.Format(time.RFC3339),
	}

	s.logger.Info().
		Str("type", string(reportType)).
		Int("year", year).
		Str("file", report.FileName).
		Msg("Report generated")

	return report, nil
}
