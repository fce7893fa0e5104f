package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/carteira/internal/app"
	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/models"
	"github.com/bobmcallan/carteira/internal/services/portfolio"
	"github.com/bobmcallan/carteira/internal/services/report"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		common.LoadVersionFromFile()
		fmt.Fprintln(cmd.OutOrStdout(), "carteira", common.GetFullVersion())
	},
}

var quotesRefresh bool

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Show quotes for every priced holding",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			set, err := a.PortfolioService.Quotes(ctx, quotesRefresh)
			if err != nil {
				return err
			}
			return render(cmd, app.FormatQuotes(set, a.Config.DisplayCurrency))
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the portfolio dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			sum, err := a.PortfolioService.Summary(ctx)
			if err != nil {
				return err
			}
			md := app.FormatSummary(sum)

			metrics, err := a.PortfolioService.Metrics(ctx)
			if err == nil {
				md += "\n" + app.FormatMetrics(metrics, a.Config.DisplayCurrency)
			}
			return render(cmd, md)
		})
	},
}

var rankN int

var rankCmd = &cobra.Command{
	Use:       "rank <best|worst>",
	Short:     "Rank holdings by profit margin",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(models.RankBest), string(models.RankWorst)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseRankKind(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			entries, err := a.PortfolioService.Rankings(ctx, kind, rankN)
			if err != nil {
				return err
			}
			return render(cmd, app.FormatRankings(kind, entries))
		})
	},
}

var totalCategory string

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Total value of holdings at market price",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			total, err := a.PortfolioService.TotalAtMarket(ctx, totalCategory)
			if err != nil {
				return err
			}
			return render(cmd, app.FormatTotal(totalCategory, total, a.Config.DisplayCurrency))
		})
	},
}

var (
	reportYear int
	reportSave bool
)

var reportCmd = &cobra.Command{
	Use:       "report <complete|assetTransactions|dividend|assets>",
	Short:     "Generate a year-end report",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"complete", "assetTransactions", "dividend", "assets"},
	RunE: func(cmd *cobra.Command, args []string) error {
		reportType, err := report.ParseReportType(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			r, err := a.ReportService.Generate(ctx, reportType, reportYear)
			if err != nil {
				return err
			}
			if reportSave {
				if err := os.WriteFile(r.FileName, []byte(r.Markdown), 0o644); err != nil {
					return fmt.Errorf("failed to save report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", r.FileName)
				return nil
			}
			return render(cmd, r.Markdown)
		})
	},
}

func init() {
	quotesCmd.Flags().BoolVar(&quotesRefresh, "refresh", false, "refetch every quote, ignoring the cache")
	rankCmd.Flags().IntVarP(&rankN, "n", "n", 3, "number of entries")
	totalCmd.Flags().StringVar(&totalCategory, "category", portfolio.CategoryAll, "category filter: all, an upstream category, or a kind")
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "report year (default: current year)")
	reportCmd.Flags().BoolVar(&reportSave, "save", false, "write the report to its file name instead of printing it")
}
