// Package quotecache owns the single persisted quote slot: one JSON array of
// quotes plus an epoch-millisecond timestamp sidecar.
package quotecache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/models"
)

// Default key names and validity window.
const (
	DefaultQuotesKey    = "brapi_cache"
	DefaultTimestampKey = "brapi_cache_timestamp"
	DefaultTTL          = 15 * time.Minute
)

// Cache implements interfaces.QuoteCache over a KeyValueStorage.
type Cache struct {
	store        interfaces.KeyValueStorage
	logger       *common.Logger
	ttl          time.Duration
	quotesKey    string
	timestampKey string
	mu           sync.Mutex
}

var _ interfaces.QuoteCache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the validity window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeys sets the storage keys for the quote array and its timestamp.
func WithKeys(quotesKey, timestampKey string) Option {
	return func(c *Cache) {
		if quotesKey != "" {
			c.quotesKey = quotesKey
		}
		if timestampKey != "" {
			c.timestampKey = timestampKey
		}
	}
}

// NewCache creates a quote cache over store.
func NewCache(store interfaces.KeyValueStorage, logger *common.Logger, opts ...Option) *Cache {
	c := &Cache{
		store:        store,
		logger:       logger,
		ttl:          DefaultTTL,
		quotesKey:    DefaultQuotesKey,
		timestampKey: DefaultTimestampKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCacheFromConfig creates a cache using the [cache] config section.
func NewCacheFromConfig(store interfaces.KeyValueStorage, logger *common.Logger, config common.CacheConfig) *Cache {
	return NewCache(store, logger,
		WithTTL(config.GetDuration()),
		WithKeys(config.QuotesKey, config.TimestampKey),
	)
}

// TTL returns the validity window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Read returns the cached quotes and the time they were written. A missing
// or malformed slot is logged and reported as (nil, zero time).
func (c *Cache) Read(ctx context.Context) ([]models.Quote, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rawQuotes, err := c.store.Get(ctx, c.quotesKey)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			c.logger.Warn().Err(err).Str("key", c.quotesKey).Msg("Quote cache read failed")
		}
		return nil, time.Time{}
	}

	var quotes []models.Quote
	if err := json.Unmarshal([]byte(rawQuotes), &quotes); err != nil {
		c.logger.Warn().Err(err).Str("key", c.quotesKey).Msg("Malformed quote cache payload, treating as empty")
		return nil, time.Time{}
	}

	rawTS, err := c.store.Get(ctx, c.timestampKey)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			c.logger.Warn().Err(err).Str("key", c.timestampKey).Msg("Quote cache timestamp read failed")
		}
		return quotes, time.Time{}
	}

	ms, err := strconv.ParseInt(strings.TrimSpace(rawTS), 10, 64)
	if err != nil || ms <= 0 {
		c.logger.Warn().Str("key", c.timestampKey).Str("value", rawTS).Msg("Malformed quote cache timestamp, treating as absent")
		return quotes, time.Time{}
	}

	return quotes, common.FromUnixMilli(ms)
}

// Write replaces the quote array and timestamp together. Timestamps are
// stored at millisecond precision.
func (c *Cache) Write(ctx context.Context, quotes []models.Quote, at time.Time) error {
	if quotes == nil {
		quotes = []models.Quote{}
	}
	data, err := json.Marshal(quotes)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SetMany(ctx, map[string]string{
		c.quotesKey:    string(data),
		c.timestampKey: strconv.FormatInt(common.UnixMilli(at), 10),
	}); err != nil {
		return err
	}

	c.logger.Debug().Int("quotes", len(quotes)).Int64("timestamp", common.UnixMilli(at)).Msg("Quote cache written")
	return nil
}

// IsFresh reports whether a slot written at ts is still valid at now.
func (c *Cache) IsFresh(ts, now time.Time) bool {
	return common.IsFresh(ts, now, c.ttl)
}
