package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/carteira/internal/clients/brapi"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/models"
)

// --- Mocks ---

type mockProvider struct {
	quotes map[string]models.Quote
	errs   map[string]error
	calls  []string
	onCall func(symbol string)
}

func (m *mockProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	m.calls = append(m.calls, symbol)
	if m.onCall != nil {
		m.onCall(symbol)
	}
	if err := m.errs[symbol]; err != nil {
		return nil, err
	}
	q, ok := m.quotes[symbol]
	if !ok {
		return nil, errors.New("no results")
	}
	return &q, nil
}

type mockCache struct {
	quotes []models.Quote
	ts     time.Time
	ttl    time.Duration
	writes int
	reads  int
}

func (m *mockCache) Read(_ context.Context) ([]models.Quote, time.Time) {
	m.reads++
	return m.quotes, m.ts
}

func (m *mockCache) Write(_ context.Context, quotes []models.Quote, at time.Time) error {
	m.writes++
	m.quotes = append([]models.Quote(nil), quotes...)
	m.ts = at
	return nil
}

func (m *mockCache) IsFresh(ts, now time.Time) bool {
	return common.IsFresh(ts, now, m.ttl)
}

type countingPacer struct {
	waits int
	err   error
}

func (p *countingPacer) Wait(_ context.Context) error {
	p.waits++
	return p.err
}

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestService(provider *mockProvider, cache *mockCache, pacer *countingPacer, opts ...Option) *Service {
	opts = append([]Option{WithPacer(pacer)}, opts...)
	svc := NewService(provider, cache, common.NewSilentLogger(), opts...)
	svc.now = func() time.Time { return testNow }
	return svc
}

func providerWith(symbols ...string) *mockProvider {
	m := &mockProvider{quotes: map[string]models.Quote{}, errs: map[string]error{}}
	for i, s := range symbols {
		m.quotes[s] = models.Quote{Symbol: s, Price: float64(10 + i)}
	}
	return m
}

// --- Tests ---

func TestFetchQuotes_EmptyInputTouchesNothing(t *testing.T) {
	provider := providerWith("AAA")
	cache := &mockCache{ttl: 15 * time.Minute}
	svc := newTestService(provider, cache, &countingPacer{})

	for _, in := range [][]string{nil, {}, {"  "}} {
		set, err := svc.FetchQuotes(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Quotes == nil || len(set.Quotes) != 0 {
			t.Errorf("expected empty non-nil quotes, got %v", set.Quotes)
		}
	}
	if len(provider.calls) != 0 || cache.reads != 0 || cache.writes != 0 {
		t.Errorf("calls=%d reads=%d writes=%d, want all zero", len(provider.calls), cache.reads, cache.writes)
	}
}

func TestFetchQuotes_FreshCacheReturnedUnfiltered(t *testing.T) {
	cached := []models.Quote{{Symbol: "AAA", Price: 6}, {Symbol: "ZZZ", Price: 1}}
	provider := providerWith("BBB")
	cache := &mockCache{quotes: cached, ts: testNow.Add(-time.Minute), ttl: 15 * time.Minute}
	svc := newTestService(provider, cache, &countingPacer{})

	set, err := svc.FetchQuotes(context.Background(), []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.FromCache {
		t.Error("expected FromCache")
	}
	if len(set.Quotes) != 2 || set.Quotes[1].Symbol != "ZZZ" {
		t.Errorf("expected the full cached array, got %+v", set.Quotes)
	}
	if len(provider.calls) != 0 {
		t.Errorf("provider called %v on fresh cache", provider.calls)
	}
	if set.UpdatedAt != testNow.Add(-time.Minute).UnixMilli() {
		t.Errorf("UpdatedAt = %d", set.UpdatedAt)
	}
}

func TestFetchQuotes_StaleCacheRefetchesSequentially(t *testing.T) {
	provider := providerWith("PETR4", "VALE3", "ITSA4")
	cache := &mockCache{
		quotes: []models.Quote{{Symbol: "OLD", Price: 1}},
		ts:     testNow.Add(-15 * time.Minute), // exactly ttl old: stale
		ttl:    15 * time.Minute,
	}
	pacer := &countingPacer{}
	svc := newTestService(provider, cache, pacer)

	set, err := svc.FetchQuotes(context.Background(), []string{"PETR4F", "VALE3", "ITSA4", "PETR4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantCalls := []string{"PETR4", "VALE3", "ITSA4"}
	if len(provider.calls) != len(wantCalls) {
		t.Fatalf("calls = %v, want %v", provider.calls, wantCalls)
	}
	for i, c := range wantCalls {
		if provider.calls[i] != c {
			t.Errorf("call[%d] = %s, want %s", i, provider.calls[i], c)
		}
	}
	if pacer.waits != 2 {
		t.Errorf("pacer waits = %d, want 2 (none before the first request)", pacer.waits)
	}
	if set.FromCache {
		t.Error("expected fresh fetch")
	}
	if cache.writes != 1 || !cache.ts.Equal(testNow) {
		t.Errorf("writes=%d ts=%v, want one write at now", cache.writes, cache.ts)
	}
	if len(cache.quotes) != 3 || cache.quotes[0].Symbol != "PETR4" {
		t.Errorf("cache not overwritten wholesale: %+v", cache.quotes)
	}
}

func TestFetchQuotes_FailedSymbolsSkipped(t *testing.T) {
	provider := providerWith("AAA", "CCC")
	provider.errs["BBB"] = errors.New("connection reset")
	cache := &mockCache{ttl: 15 * time.Minute}
	svc := newTestService(provider, cache, &countingPacer{})

	set, err := svc.FetchQuotes(context.Background(), []string{"AAA", "BBB", "CCC", "DDD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Quotes) != 2 || set.Quotes[0].Symbol != "AAA" || set.Quotes[1].Symbol != "CCC" {
		t.Errorf("quotes = %+v, want AAA then CCC", set.Quotes)
	}
	if len(provider.calls) != 4 {
		t.Errorf("expected every symbol attempted, got %v", provider.calls)
	}
}

func TestFetchQuotes_AllFailedStillWritesEmpty(t *testing.T) {
	provider := providerWith()
	cache := &mockCache{ttl: 15 * time.Minute}
	svc := newTestService(provider, cache, &countingPacer{})

	set, err := svc.FetchQuotes(context.Background(), []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Quotes) != 0 {
		t.Errorf("quotes = %+v", set.Quotes)
	}
	if cache.writes != 1 || !cache.ts.Equal(testNow) {
		t.Errorf("expected empty array written at now, writes=%d ts=%v", cache.writes, cache.ts)
	}
}

func TestFetchQuotes_PerRequestTimeout(t *testing.T) {
	var deadlines []bool
	provider := providerWith("AAA")
	provider.onCall = func(string) {}
	svc := newTestService(provider, &mockCache{ttl: time.Minute}, &countingPacer{}, WithRequestTimeout(time.Second))
	svc.provider = deadlineProvider{inner: provider, seen: &deadlines}

	if _, err := svc.FetchQuotes(context.Background(), []string{"AAA"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deadlines) != 1 || !deadlines[0] {
		t.Errorf("expected request context with deadline, got %v", deadlines)
	}
}

type deadlineProvider struct {
	inner *mockProvider
	seen  *[]bool
}

func (d deadlineProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	_, ok := ctx.Deadline()
	*d.seen = append(*d.seen, ok)
	return d.inner.GetQuote(ctx, symbol)
}

func TestFetchQuotes_CancelledMidBatchKeepsCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := providerWith("AAA", "BBB", "CCC")
	provider.onCall = func(s string) {
		if s == "BBB" {
			cancel()
		}
	}
	prev := []models.Quote{{Symbol: "OLD"}}
	cache := &mockCache{quotes: prev, ttl: time.Minute}
	svc := newTestService(provider, cache, &countingPacer{})

	_, err := svc.FetchQuotes(ctx, []string{"AAA", "BBB", "CCC"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if cache.writes != 0 {
		t.Error("partial batch must not be written")
	}
	for _, c := range provider.calls {
		if c == "CCC" {
			t.Error("batch continued after cancellation")
		}
	}
}

func TestFetchQuotes_RefetchMissingKeepsTimestamp(t *testing.T) {
	cachedAt := testNow.Add(-5 * time.Minute)
	provider := providerWith("BBB")
	cache := &mockCache{quotes: []models.Quote{{Symbol: "AAA", Price: 6}}, ts: cachedAt, ttl: 15 * time.Minute}
	svc := newTestService(provider, cache, &countingPacer{}, WithRefetchMissing(true))

	set, err := svc.FetchQuotes(context.Background(), []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.calls) != 1 || provider.calls[0] != "BBB" {
		t.Errorf("calls = %v, want only the missing BBB", provider.calls)
	}
	if len(set.Quotes) != 2 || set.Quotes[1].Symbol != "BBB" {
		t.Errorf("quotes = %+v", set.Quotes)
	}
	if !cache.ts.Equal(cachedAt) {
		t.Errorf("gap fill moved timestamp to %v", cache.ts)
	}
}

func TestRefresh_BypassesFreshCache(t *testing.T) {
	provider := providerWith("AAA")
	cache := &mockCache{quotes: []models.Quote{{Symbol: "AAA", Price: 1}}, ts: testNow, ttl: 15 * time.Minute}
	svc := newTestService(provider, cache, &countingPacer{})

	set, err := svc.Refresh(context.Background(), []string{"AAA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.calls) != 1 {
		t.Errorf("expected provider call, got %v", provider.calls)
	}
	if set.Quotes[0].Price != 10 {
		t.Errorf("price = %v, want fresh provider price", set.Quotes[0].Price)
	}
}

func TestCached_NoNetwork(t *testing.T) {
	provider := providerWith("AAA")
	cache := &mockCache{ttl: time.Minute}
	svc := newTestService(provider, cache, &countingPacer{})

	set := svc.Cached(context.Background())
	if set.Quotes == nil || set.UpdatedAt != 0 {
		t.Errorf("empty cache: %+v", set)
	}
	if len(provider.calls) != 0 {
		t.Error("Cached must not call the provider")
	}
}

func TestPacerFromConfig(t *testing.T) {
	if _, ok := PacerFromConfig(common.BrapiConfig{RequestDelay: "250ms"}).(*FixedDelay); !ok {
		t.Error("expected fixed delay without rate limit")
	}
	if _, ok := PacerFromConfig(common.BrapiConfig{RateLimit: 2}).(*LimiterPacer); !ok {
		t.Error("expected limiter pacer with rate limit")
	}
}

func TestFixedDelay_UsesInjectedSleep(t *testing.T) {
	var slept []time.Duration
	p := &FixedDelay{Delay: 500 * time.Millisecond, sleep: func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}}
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if len(slept) != 3 || slept[0] != 500*time.Millisecond {
		t.Errorf("slept = %v", slept)
	}
}

func TestFixedDelay_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewFixedDelay(time.Hour).Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFetchQuotes_SymbolWithoutPriceSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "AAA":
			w.Write([]byte(`{"results":[{"symbol":"AAA","regularMarketPrice":"n/a"}]}`))
		case "BBB":
			w.Write([]byte(`{"results":[{"symbol":"BBB","regularMarketPrice":null}]}`))
		default:
			w.Write([]byte(`{"results":[{"symbol":"CCC","regularMarketPrice":3}]}`))
		}
	}))
	defer srv.Close()

	cache := &mockCache{ttl: 15 * time.Minute}
	svc := NewService(brapi.NewClient("", brapi.WithBaseURL(srv.URL)), cache, common.NewSilentLogger(),
		WithPacer(&countingPacer{}))
	svc.now = func() time.Time { return testNow }

	set, err := svc.FetchQuotes(context.Background(), []string{"AAA", "BBB", "CCC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Quotes) != 1 || set.Quotes[0].Symbol != "CCC" || set.Quotes[0].Price != 3 {
		t.Errorf("quotes = %+v, want only CCC", set.Quotes)
	}
	if len(cache.quotes) != 1 {
		t.Errorf("cached %d quotes, want 1", len(cache.quotes))
	}
}
