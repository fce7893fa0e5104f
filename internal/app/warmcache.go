package app

import (
	"context"
	"os"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
)

// warmCache resolves quotes on startup so the first request is served from
// the cache. A cache that is still fresh is left alone.
func warmCache(ctx context.Context, svc interfaces.PortfolioService, logger *common.Logger) {
	if os.Getenv("CARTEIRA_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via CARTEIRA_WARM_CACHE=off")
		return
	}

	start := time.Now()
	logger.Info().Msg("Warm cache: starting")

	set, err := svc.Quotes(ctx, false)
	if err != nil {
		// Expected when the wallet API is not running yet
		logger.Info().Err(err).Msg("Warm cache: quotes unavailable, skipping")
		return
	}

	logger.Info().
		Int("quotes", len(set.Quotes)).
		Bool("from_cache", set.FromCache).
		Dur("elapsed", time.Since(start)).
		Msg("Warm cache: complete")
}
