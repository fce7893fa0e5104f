// Package brapi provides a client for the brapi.dev quote API
package brapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/models"
)

const (
	DefaultBaseURL = "https://brapi.dev/api/quote"
	DefaultTimeout = 10 * time.Second
)

// ErrNoResults is returned when the provider answers with an empty results array.
var ErrNoResults = errors.New("brapi: no results")

// ErrNoPrice is returned when the first result carries no usable regularMarketPrice.
var ErrNoPrice = errors.New("brapi: no price")

// parseFlex reads a JSON number or numeric string. ok is false for null,
// empty or non-numeric strings and for NaN or infinite values.
func parseFlex(data []byte) (value float64, ok bool, err error) {
	if string(data) == "null" {
		return 0, false, nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		return num, true, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, false, fmt.Errorf("cannot unmarshal %s into float64", string(data))
	}
	num, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false, nil
	}
	return num, true, nil
}

// flexFloat64 accepts numbers, numeric strings and null. Anything unusable reads as 0.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	v, _, err := parseFlex(data)
	if err != nil {
		return err
	}
	*f = flexFloat64(v)
	return nil
}

// optionalFloat64 is a flexFloat64 that remembers whether a usable value was present.
type optionalFloat64 struct {
	Value float64
	Valid bool
}

func (o *optionalFloat64) UnmarshalJSON(data []byte) error {
	v, ok, err := parseFlex(data)
	if err != nil {
		return err
	}
	o.Value, o.Valid = v, ok
	return nil
}

type quoteResult struct {
	Symbol                     string          `json:"symbol"`
	ShortName                  string          `json:"shortName"`
	LongName                   string          `json:"longName"`
	Currency                   string          `json:"currency"`
	RegularMarketPrice         optionalFloat64 `json:"regularMarketPrice"`
	RegularMarketDayHigh       flexFloat64     `json:"regularMarketDayHigh"`
	RegularMarketDayLow        flexFloat64     `json:"regularMarketDayLow"`
	RegularMarketChange        flexFloat64     `json:"regularMarketChange"`
	RegularMarketChangePercent flexFloat64     `json:"regularMarketChangePercent"`
	RegularMarketTime          string          `json:"regularMarketTime"`
	MarketCap                  flexFloat64     `json:"marketCap"`
	RegularMarketVolume        flexFloat64     `json:"regularMarketVolume"`
	LogoURL                    string          `json:"logourl"`
}

type quoteResponse struct {
	Results []quoteResult `json:"results"`
}

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Client implements interfaces.QuoteProvider
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

var _ interfaces.QuoteProvider = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL. The symbol is appended as a path segment.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit caps requests per second. Zero or less means unlimited.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
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

// WithHTTPClient replaces the HTTP client. nil is ignored.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new brapi client. apiKey is sent as a bearer token.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-2xx answer from the provider
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("brapi API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("brapi request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && er.Message != "" {
			msg = er.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Endpoint: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetQuote fetches symbol and returns the first entry of the results array.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	var resp quoteResponse
	if err := c.get(ctx, "/"+url.PathEscape(symbol), &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoResults)
	}

	r := resp.Results[0]
	if !r.RegularMarketPrice.Valid {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoPrice)
	}
	return &models.Quote{
		Symbol:        r.Symbol,
		ShortName:     r.ShortName,
		LongName:      r.LongName,
		Currency:      r.Currency,
		Price:         r.RegularMarketPrice.Value,
		DayHigh:       float64(r.RegularMarketDayHigh),
		DayLow:        float64(r.RegularMarketDayLow),
		Change:        float64(r.RegularMarketChange),
		ChangePercent: float64(r.RegularMarketChangePercent),
		MarketTime:    r.RegularMarketTime,
		MarketCap:     float64(r.MarketCap),
		Volume:        float64(r.RegularMarketVolume),
		LogoURL:       r.LogoURL,
	}, nil
}
