// Package app wires configuration, storage, clients and services into the
// core shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/carteira/internal/clients/brapi"
	"github.com/bobmcallan/carteira/internal/clients/wallet"
	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/services/portfolio"
	"github.com/bobmcallan/carteira/internal/services/quote"
	"github.com/bobmcallan/carteira/internal/services/quotecache"
	"github.com/bobmcallan/carteira/internal/services/report"
	"github.com/bobmcallan/carteira/internal/storage"
)

// App holds all initialized services, clients, and the MCP server.
// It is the shared core used by both cmd/carteira-server and cmd/carteira.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.KeyValueStorage
	QuoteCache       interfaces.QuoteCache
	QuoteService     interfaces.QuoteService
	PortfolioService interfaces.PortfolioService
	ReportService    interfaces.ReportService
	MCPServer        *server.MCPServer
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
	warmCacheCancel context.CancelFunc
}

// Dependencies lets callers replace the external collaborators. Nil fields
// are built from config.
type Dependencies struct {
	Storage       interfaces.KeyValueStorage
	QuoteProvider interfaces.QuoteProvider
	Wallet        interfaces.WalletClient
	Pacer         quote.Pacer
}

func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath returns configPath, CARTEIRA_CONFIG, carteira.toml next
// to the binary, or config/carteira.toml, in that order.
func ResolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("CARTEIRA_CONFIG"); env != "" {
		return env
	}
	path := filepath.Join(getBinaryDir(), "carteira.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "config/carteira.toml"
	}
	return path
}

// LoadConfig resolves and loads the configuration.
func LoadConfig(configPath string) (*common.Config, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config, nil
}

// NewApp loads config from configPath and builds the App with a logger from
// the [logging] section.
func NewApp(configPath string) (*App, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewAppWithConfig(context.Background(), config, common.NewLoggerFromConfig(config.Logging), Dependencies{})
}

// NewAppWithConfig builds the App from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger, deps Dependencies) (*App, error) {
	startupStart := time.Now()

	store := deps.Storage
	if store == nil {
		var err error
		store, err = storage.NewKeyValueStorage(ctx, logger, config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	provider := deps.QuoteProvider
	if provider == nil {
		brapiCfg := config.Clients.Brapi
		if brapiCfg.APIKey == "" {
			logger.Warn().Msg("BRAPI API key not configured - quote requests may be rejected")
		}
		provider = brapi.NewClient(brapiCfg.APIKey,
			brapi.WithBaseURL(brapiCfg.BaseURL),
			brapi.WithLogger(logger),
			brapi.WithTimeout(brapiCfg.GetTimeout()),
		)
	}

	walletClient := deps.Wallet
	if walletClient == nil {
		walletClient = wallet.NewClientFromConfig(config.Clients.Wallet, logger)
	}

	pacer := deps.Pacer
	if pacer == nil {
		pacer = quote.PacerFromConfig(config.Clients.Brapi)
	}

	cache := quotecache.NewCacheFromConfig(store, logger, config.Cache)
	quoteService := quote.NewService(provider, cache, logger,
		quote.WithPacer(pacer),
		quote.WithRequestTimeout(config.Clients.Brapi.GetTimeout()),
		quote.WithRefetchMissing(config.Cache.RefetchMissing),
	)
	portfolioService := portfolio.NewService(walletClient, quoteService, logger,
		portfolio.WithLogos(portfolio.NewLogoResolver(config.Logos)),
		portfolio.WithTopN(config.Ranking.TopN),
		portfolio.WithCurrency(config.DisplayCurrency),
	)
	reportService := report.NewService(walletClient, config.DisplayCurrency, logger)

	mcpServer := server.NewMCPServer(
		"carteira",
		common.Version,
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          store,
		QuoteCache:       cache,
		QuoteService:     quoteService,
		PortfolioService: portfolioService,
		ReportService:    reportService,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	a.registerTools()

	logger.Info().
		Str("storage", config.StorageDescription()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, cancel warm cache, close storage.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
}

// StartWarmCache primes the quote cache in the background unless disabled.
func (a *App) StartWarmCache() {
	if !a.Config.Scheduler.WarmOnStart {
		return
	}
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.PortfolioService, a.Logger)
	}()
}

// StartQuoteScheduler refreshes quotes on the configured interval. A zero
// interval leaves the scheduler off.
func (a *App) StartQuoteScheduler() {
	interval := a.Config.Scheduler.GetRefreshInterval()
	if interval <= 0 {
		a.Logger.Info().Msg("Quote scheduler: disabled")
		return
	}
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startQuoteScheduler(schedulerCtx, a.PortfolioService, a.Logger, interval)
}

// toolset lists the MCP tools with their handlers.
func (a *App) toolset() []server.ServerTool {
	cur := a.Config.DisplayCurrency
	logger := a.Logger

	return []server.ServerTool{
		{Tool: createGetVersionTool(), Handler: handleGetVersion()},
		{Tool: createGetQuotesTool(), Handler: handleGetQuotes(a.PortfolioService, cur, logger)},
		{Tool: createGetPortfolioSummaryTool(), Handler: handleGetPortfolioSummary(a.PortfolioService, logger)},
		{Tool: createGetAssetMetricsTool(), Handler: handleGetAssetMetrics(a.PortfolioService, cur, logger)},
		{Tool: createGetRankingsTool(), Handler: handleGetRankings(a.PortfolioService, a.Config.Ranking.TopN, logger)},
		{Tool: createGetTotalInvestedTool(), Handler: handleGetTotalInvested(a.PortfolioService, cur, logger)},
		{Tool: createGenerateReportTool(), Handler: handleGenerateReport(a.ReportService, logger)},
	}
}

func (a *App) registerTools() {
	a.MCPServer.AddTools(a.toolset()...)
}
