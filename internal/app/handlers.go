package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/models"
	"github.com/bobmcallan/carteira/internal/services/portfolio"
	"github.com/bobmcallan/carteira/internal/services/report"
)

func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v := common.GetVersionInfo()
		return textResult(fmt.Sprintf("Carteira\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK", v.Version, v.Build, v.GitCommit)), nil
	}
}

func handleGetQuotes(svc interfaces.PortfolioService, currency string, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		refresh := request.GetBool("refresh", false)

		set, err := svc.Quotes(ctx, refresh)
		if err != nil {
			logger.Error().Err(err).Bool("refresh", refresh).Msg("Get quotes failed")
			return errorResult(fmt.Sprintf("Quotes error: %v", err)), nil
		}
		return textResult(FormatQuotes(set, currency)), nil
	}
}

func handleGetPortfolioSummary(svc interfaces.PortfolioService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Portfolio summary failed")
			return errorResult(fmt.Sprintf("Summary error: %v", err)), nil
		}
		return textResult(FormatSummary(summary)), nil
	}
}

func handleGetAssetMetrics(svc interfaces.PortfolioService, currency string, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics, err := svc.Metrics(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Asset metrics failed")
			return errorResult(fmt.Sprintf("Metrics error: %v", err)), nil
		}
		return textResult(FormatMetrics(metrics, currency)), nil
	}
}

func handleGetRankings(svc interfaces.PortfolioService, defaultN int, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("kind")
		if err != nil || raw == "" {
			return errorResult("Error: kind parameter is required"), nil
		}
		kind, err := models.ParseRankKind(strings.ToLower(raw))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		n := request.GetInt("n", defaultN)
		entries, err := svc.Rankings(ctx, kind, n)
		if err != nil {
			logger.Error().Err(err).Str("kind", string(kind)).Msg("Rankings failed")
			return errorResult(fmt.Sprintf("Rankings error: %v", err)), nil
		}
		return textResult(FormatRankings(kind, entries)), nil
	}
}

func handleGetTotalInvested(svc interfaces.PortfolioService, currency string, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category := request.GetString("category", portfolio.CategoryAll)

		total, err := svc.TotalAtMarket(ctx, category)
		if err != nil {
			if errors.Is(err, portfolio.ErrInvalidCategory) || errors.Is(err, portfolio.ErrUnknownCategory) {
				return errorResult(fmt.Sprintf("Error: %v", err)), nil
			}
			logger.Error().Err(err).Str("category", category).Msg("Total invested failed")
			return errorResult(fmt.Sprintf("Total error: %v", err)), nil
		}
		return textResult(FormatTotal(category, total, currency)), nil
	}
}

func handleGenerateReport(svc interfaces.ReportService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("type")
		if err != nil || raw == "" {
			return errorResult("Error: type parameter is required"), nil
		}
		reportType, err := report.ParseReportType(raw)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		year := request.GetInt("year", 0)
		r, err := svc.Generate(ctx, reportType, year)
		if err != nil {
			logger.Error().Err(err).Str("type", raw).Int("year", year).Msg("Report generation failed")
			return errorResult(fmt.Sprintf("Report error: %v", err)), nil
		}
		return textResult(fmt.Sprintf("_File: %s_\n\n%s", r.FileName, r.Markdown)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
