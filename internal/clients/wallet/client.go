// Package wallet provides a client for the wallet (holdings) API
package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
)

// Endpoints holds the API paths, relative to the base URL. Year-scoped
// paths get the year appended verbatim.
type Endpoints struct {
	Holdings            string
	Assets              string
	Totals              string
	DividendPerformance string
	Distribution        string
	WalletComplete      string
	DividendsComplete   string
	Transactions        string
}

// DefaultEndpoints returns the paths served by the reference wallet API.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Holdings:            "/wallet",
		Assets:              "/wallet/assets/all",
		Totals:              "/wallet/totals",
		DividendPerformance: "/dividends/performance",
		Distribution:        "/wallet/distribution",
		WalletComplete:      "/wallet/complete/",
		DividendsComplete:   "/dividends/complete/",
		Transactions:        "/transactions/all",
	}
}

// EndpointsFromConfig fills Endpoints from config, keeping defaults for blank paths.
func EndpointsFromConfig(cfg common.WalletConfig) Endpoints {
	e := DefaultEndpoints()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&e.Holdings, cfg.HoldingsPath)
	set(&e.Assets, cfg.AssetsPath)
	set(&e.Totals, cfg.TotalsPath)
	set(&e.DividendPerformance, cfg.DividendPerformancePath)
	set(&e.Distribution, cfg.DistributionPath)
	set(&e.WalletComplete, cfg.WalletCompletePath)
	set(&e.DividendsComplete, cfg.DividendsCompletePath)
	set(&e.Transactions, cfg.TransactionsPath)
	return e
}

// Client implements interfaces.WalletClient
type Client struct {
	baseURL    string
	endpoints  Endpoints
	httpClient *http.Client
	logger     *common.Logger
}

var _ interfaces.WalletClient = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithEndpoints replaces the endpoint paths
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a new wallet API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		endpoints:  DefaultEndpoints(),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a client from the [clients.wallet] section.
func NewClientFromConfig(cfg common.WalletConfig, logger *common.Logger) *Client {
	return NewClient(
		WithBaseURL(cfg.BaseURL),
		WithEndpoints(EndpointsFromConfig(cfg)),
		WithTimeout(cfg.GetTimeout()),
		WithLogger(logger),
	)
}

// APIError represents a non-2xx wallet API answer
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wallet API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("wallet API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body)), Endpoint: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// GetHoldings returns every position, including treasury instruments.
func (c *Client) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	var rows []holdingData
	if err := c.get(ctx, c.endpoints.Holdings, &rows); err != nil {
		return nil, err
	}
	return toHoldings(rows), nil
}

// GetAssetSymbols returns the raw symbol list, untouched.
func (c *Client) GetAssetSymbols(ctx context.Context) ([]string, error) {
	var resp assetsResponse
	if err := c.get(ctx, c.endpoints.Assets, &resp); err != nil {
		return nil, err
	}
	if resp.Assets == nil {
		return []string{}, nil
	}
	return resp.Assets, nil
}

func (c *Client) GetTotals(ctx context.Context) (*models.WalletTotals, error) {
	var resp totalsData
	if err := c.get(ctx, c.endpoints.Totals, &resp); err != nil {
		return nil, err
	}
	return &models.WalletTotals{
		TotalInvested:  float64(resp.TotalInvestido),
		TotalDividends: float64(resp.TotalDividendos),
	}, nil
}

func (c *Client) GetDividendPerformance(ctx context.Context) (*models.DividendPerformance, error) {
	var resp dividendPerformanceData
	if err := c.get(ctx, c.endpoints.DividendPerformance, &resp); err != nil {
		return nil, err
	}
	return &models.DividendPerformance{
		TotalInvested: float64(resp.TotalInvested),
		TotalReceived: float64(resp.TotalReceived),
		Performance:   float64(resp.Performance),
	}, nil
}

// GetDistribution returns the upstream category -> value map.
func (c *Client) GetDistribution(ctx context.Context) (map[string]float64, error) {
	var raw map[string]flexFloat64
	if err := c.get(ctx, c.endpoints.Distribution, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		out[k] = float64(v)
	}
	return out, nil
}

// GetWalletForYear returns the position statement at 31/12 of year.
func (c *Client) GetWalletForYear(ctx context.Context, year int) ([]models.Holding, error) {
	var rows []holdingData
	if err := c.get(ctx, c.endpoints.WalletComplete+strconv.Itoa(year), &rows); err != nil {
		return nil, err
	}
	return toHoldings(rows), nil
}

// GetDividendsForYear returns dividends received during year.
func (c *Client) GetDividendsForYear(ctx context.Context, year int) ([]models.DividendRecord, error) {
	var rows []dividendData
	if err := c.get(ctx, c.endpoints.DividendsComplete+strconv.Itoa(year), &rows); err != nil {
		return nil, err
	}
	out := make([]models.DividendRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.DividendRecord{Asset: r.Asset, Amount: float64(r.Amount), Category: r.Category})
	}
	return out, nil
}

// GetTransactions returns every brokerage movement.
func (c *Client) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	var rows []transactionData
	if err := c.get(ctx, c.endpoints.Transactions, &rows); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}
