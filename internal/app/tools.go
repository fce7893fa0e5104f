package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Carteira server version and status. Use this to verify connectivity."),
	)
}

func createGetQuotesTool() mcp.Tool {
	return mcp.NewTool("get_quotes",
		mcp.WithDescription("Get market quotes for every priced holding. Served from the quote cache while it is fresh."),
		mcp.WithBoolean("refresh",
			mcp.Description("Refetch all quotes from the provider, ignoring the cache (default: false)"),
		),
	)
}

func createGetPortfolioSummaryTool() mcp.Tool {
	return mcp.NewTool("get_portfolio_summary",
		mcp.WithDescription("Dashboard summary: invested total, market value, profit/loss, dividends, best and worst performers, category distribution."),
	)
}

func createGetAssetMetricsTool() mcp.Tool {
	return mcp.NewTool("get_asset_metrics",
		mcp.WithDescription("Per-asset current price, market value and profit. Assets without a quote show '--'."),
	)
}

func createGetRankingsTool() mcp.Tool {
	return mcp.NewTool("get_rankings",
		mcp.WithDescription("Rank holdings by profit margin. Holdings without a quote are excluded."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Enum("best", "worst"),
			mcp.Description("Ranking direction: best or worst"),
		),
		mcp.WithNumber("n",
			mcp.Description("Number of entries (default: 3)"),
		),
	)
}

func createGetTotalInvestedTool() mcp.Tool {
	return mcp.NewTool("get_total_invested",
		mcp.WithDescription("Total value of holdings at current market price. Treasury instruments use their recorded value."),
		mcp.WithString("category",
			mcp.Description("'all' (default), an upstream category such as 'Ações' or 'FIIs', or a kind: equity, real_estate_fund, agribusiness_fund, treasury, other"),
		),
	)
}

func createGenerateReportTool() mcp.Tool {
	return mcp.NewTool("generate_report",
		mcp.WithDescription("Generate a year-end report as markdown for income tax declaration."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Enum("complete", "assetTransactions", "dividend", "assets"),
			mcp.Description("Report type"),
		),
		mcp.WithNumber("year",
			mcp.Description("Report year (default: current year)"),
		),
	)
}
