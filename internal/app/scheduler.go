package app

import (
	"context"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
)

// startQuoteScheduler forces a quote refresh on a fixed interval so the
// cache stays warm between requests.
func startQuoteScheduler(ctx context.Context, svc interfaces.PortfolioService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", interval).Msg("Quote scheduler: started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Quote scheduler: stopped")
			return
		case <-ticker.C:
			refreshQuotes(ctx, svc, logger)
		}
	}
}

func refreshQuotes(ctx context.Context, svc interfaces.PortfolioService, logger *common.Logger) {
	start := time.Now()

	set, err := svc.Quotes(ctx, true)
	if err != nil {
		logger.Warn().Err(err).Msg("Quote refresh failed")
		return
	}

	logger.Info().
		Int("quotes", len(set.Quotes)).
		Dur("elapsed", time.Since(start)).
		Msg("Quote refresh: complete")
}
