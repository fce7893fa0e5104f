package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/carteira/internal/clients/wallet"
	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/models"
	"github.com/bobmcallan/carteira/internal/services/portfolio"
	"github.com/bobmcallan/carteira/internal/services/report"
)

// TotalResponse is the body of GET /api/portfolio/total.
type TotalResponse struct {
	Category  string  `json:"category"`
	Total     float64 `json:"total"`
	Formatted string  `json:"formatted"`
	Currency  string  `json:"currency"`
}

func (s *Server) currency(ctx context.Context) string {
	return common.ResolveDisplayCurrency(ctx, s.app.Config.DisplayCurrency)
}

// writeServiceError maps service errors onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var walletErr *wallet.APIError
	switch {
	case errors.Is(err, portfolio.ErrInvalidCategory),
		errors.Is(err, portfolio.ErrUnknownCategory),
		errors.Is(err, report.ErrInvalidReportType):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_argument")
	case errors.Is(err, context.Canceled):
		// client went away
		return
	case errors.Is(err, context.DeadlineExceeded):
		WriteErrorWithCode(w, http.StatusGatewayTimeout, msg+": upstream timeout", "upstream_timeout")
	case errors.As(err, &walletErr):
		s.logger.Warn().Err(err).Str("correlation_id", common.CorrelationID(r.Context())).Msg(msg)
		WriteErrorWithCode(w, http.StatusBadGateway, msg+": "+walletErr.Message, "upstream_error")
	default:
		s.logger.Error().Err(err).Str("correlation_id", common.CorrelationID(r.Context())).Msg(msg)
		WriteError(w, http.StatusInternalServerError, msg)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.app.PortfolioService.Holdings(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to get holdings")
		return
	}
	WriteJSON(w, http.StatusOK, holdings)
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	s.writeQuotes(w, r, false)
}

func (s *Server) handleQuotesRefresh(w http.ResponseWriter, r *http.Request) {
	s.writeQuotes(w, r, true)
}

func (s *Server) writeQuotes(w http.ResponseWriter, r *http.Request, refresh bool) {
	set, err := s.app.PortfolioService.Quotes(r.Context(), refresh)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to get quotes")
		return
	}
	WriteJSON(w, http.StatusOK, set)
}

func (s *Server) handlePortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.app.PortfolioService.Metrics(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to compute metrics")
		return
	}
	WriteJSON(w, http.StatusOK, metrics)
}

func (s *Server) handlePortfolioTotal(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = portfolio.CategoryAll
	}

	total, err := s.app.PortfolioService.TotalAtMarket(r.Context(), category)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to compute total")
		return
	}

	cur := s.currency(r.Context())
	WriteJSON(w, http.StatusOK, TotalResponse{
		Category:  category,
		Total:     total,
		Formatted: common.FormatAmount(total, cur),
		Currency:  cur,
	})
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.app.PortfolioService.Summary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to build summary")
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePortfolioDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := s.app.PortfolioService.Distribution(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to get distribution")
		return
	}
	WriteJSON(w, http.StatusOK, dist)
}

func rankKind(w http.ResponseWriter, r *http.Request) (models.RankKind, bool) {
	kind, err := models.ParseRankKind(strings.ToLower(chi.URLParam(r, "kind")))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_argument")
		return "", false
	}
	return kind, true
}

func (s *Server) handleRankingSingle(w http.ResponseWriter, r *http.Request) {
	kind, ok := rankKind(w, r)
	if !ok {
		return
	}
	entry, err := s.app.PortfolioService.BestOrWorst(r.Context(), kind)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to rank holdings")
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRankingTop(w http.ResponseWriter, r *http.Request) {
	kind, ok := rankKind(w, r)
	if !ok {
		return
	}
	n, ok := queryInt(r, "n", s.app.Config.Ranking.TopN)
	if !ok || n < 0 {
		WriteErrorWithCode(w, http.StatusBadRequest, "n must be a non-negative integer", "invalid_argument")
		return
	}

	entries, err := s.app.PortfolioService.Rankings(r.Context(), kind, n)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to rank holdings")
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

// handleReport returns the report as JSON, or as a markdown download when
// format=md is requested.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	reportType, err := report.ParseReportType(chi.URLParam(r, "type"))
	if err != nil {
		s.writeServiceError(w, r, err, "Invalid report type")
		return
	}
	year, ok := queryInt(r, "year", 0)
	if !ok || year < 0 {
		WriteErrorWithCode(w, http.StatusBadRequest, "year must be a positive integer", "invalid_argument")
		return
	}

	rep, err := s.app.ReportService.Generate(r.Context(), reportType, year)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to generate report")
		return
	}

	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+rep.FileName+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(rep.Markdown))
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}
