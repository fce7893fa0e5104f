package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWallet struct {
	holdings    []models.Holding
	holdingsErr error
	totals      *models.WalletTotals
	totalsErr   error
	perf        *models.DividendPerformance
	perfErr     error
	dist        map[string]float64
	distErr     error
}

func (m *mockWallet) GetHoldings(_ context.Context) ([]models.Holding, error) {
	return m.holdings, m.holdingsErr
}
func (m *mockWallet) GetAssetSymbols(_ context.Context) ([]string, error) { return nil, nil }
func (m *mockWallet) GetTotals(_ context.Context) (*models.WalletTotals, error) {
	return m.totals, m.totalsErr
}
func (m *mockWallet) GetDividendPerformance(_ context.Context) (*models.DividendPerformance, error) {
	return m.perf, m.perfErr
}
func (m *mockWallet) GetDistribution(_ context.Context) (map[string]float64, error) {
	return m.dist, m.distErr
}
func (m *mockWallet) GetWalletForYear(_ context.Context, _ int) ([]models.Holding, error) {
	return nil, nil
}
func (m *mockWallet) GetDividendsForYear(_ context.Context, _ int) ([]models.DividendRecord, error) {
	return nil, nil
}
func (m *mockWallet) GetTransactions(_ context.Context) ([]models.Transaction, error) {
	return nil, nil
}

type mockQuotes struct {
	quotes    []models.Quote
	err       error
	requested []string
	refreshed bool
}

func (m *mockQuotes) FetchQuotes(_ context.Context, symbols []string) (*models.QuoteSet, error) {
	m.requested = symbols
	if m.err != nil {
		return nil, m.err
	}
	return &models.QuoteSet{Quotes: m.quotes, FromCache: true, UpdatedAt: 1700000000000}, nil
}

func (m *mockQuotes) Refresh(ctx context.Context, symbols []string) (*models.QuoteSet, error) {
	m.refreshed = true
	return m.FetchQuotes(ctx, symbols)
}

func (m *mockQuotes) Cached(_ context.Context) *models.QuoteSet {
	return &models.QuoteSet{Quotes: m.quotes}
}

func sampleWallet() *mockWallet {
	return &mockWallet{
		holdings: []models.Holding{
			{Symbol: "PETR4F", Quantity: 10, AveragePrice: 20, Value: 200, Category: "Ações"},
			{Symbol: "VALE3", Quantity: 5, AveragePrice: 80, Value: 400, Category: "Ações"},
			{Symbol: "HGLG11", Quantity: 2, AveragePrice: 150, Value: 300, Category: "FIIs"},
			{Symbol: "Tesouro Selic 2029", Quantity: 1, Value: 1000, Category: "Tesouro Direto"},
		},
		totals: &models.WalletTotals{TotalInvested: 1900, TotalDividends: 42},
		perf:   &models.DividendPerformance{TotalInvested: 1900, TotalReceived: 42, Performance: 2.21},
		dist:   map[string]float64{"Ações": 600, "FIIs": 300, "Tesouro Direto": 1000},
	}
}

func sampleQuotes() *mockQuotes {
	return &mockQuotes{quotes: []models.Quote{
		{Symbol: "PETR4", Price: 30},
		{Symbol: "VALE3", Price: 60},
	}}
}

func newTestService(w *mockWallet, q *mockQuotes) *Service {
	return NewService(w, q, common.NewSilentLogger(), WithTopN(2))
}

func TestQuotes_RequestsPricedSymbols(t *testing.T) {
	q := sampleQuotes()
	svc := newTestService(sampleWallet(), q)

	_, err := svc.Quotes(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"PETR4", "VALE3", "HGLG11"}, q.requested)
	assert.False(t, q.refreshed)

	_, err = svc.Quotes(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, q.refreshed)
}

func TestTotalAtMarket(t *testing.T) {
	svc := newTestService(sampleWallet(), sampleQuotes())

	total, err := svc.TotalAtMarket(context.Background(), "all")
	require.NoError(t, err)
	// 10*30 + 5*60 + treasury 1000; HGLG11 has no quote
	assert.Equal(t, 1600.0, total)

	_, err = svc.TotalAtMarket(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestRankings(t *testing.T) {
	svc := newTestService(sampleWallet(), sampleQuotes())

	best, err := svc.Rankings(context.Background(), models.RankBest, 0)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "PETR4F", best[0].Symbol)
	assert.Equal(t, 50.0, best[0].Margin)
	assert.Equal(t, "VALE3", best[1].Symbol)

	worst, err := svc.BestOrWorst(context.Background(), models.RankWorst)
	require.NoError(t, err)
	assert.Equal(t, "VALE3", worst.Symbol)
	assert.Equal(t, -25.0, worst.Margin)

	_, err = svc.Rankings(context.Background(), "middle", 3)
	assert.Error(t, err)
}

func TestHoldingsError(t *testing.T) {
	w := &mockWallet{holdingsErr: errors.New("connection refused")}
	svc := newTestService(w, sampleQuotes())

	_, err := svc.Metrics(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestSummary(t *testing.T) {
	svc := newTestService(sampleWallet(), sampleQuotes())

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, sum.AssetCount)
	assert.Equal(t, "BRL", sum.Currency)
	require.NotNil(t, sum.TotalInvested)
	assert.Equal(t, 1900.0, *sum.TotalInvested)
	require.NotNil(t, sum.MarketTotal)
	assert.Equal(t, 1600.0, *sum.MarketTotal)
	require.NotNil(t, sum.ProfitLoss)
	assert.Equal(t, -300.0, *sum.ProfitLoss)
	require.NotNil(t, sum.Best)
	assert.Equal(t, "PETR4F", sum.Best.Symbol)
	assert.Equal(t, "VALE3", sum.Worst.Symbol)
	assert.Len(t, sum.TopBest, 2)
	assert.NotNil(t, sum.DividendPerformance)
	assert.Len(t, sum.UpstreamDistribution, 3)
	require.NotNil(t, sum.Distribution)
	assert.Len(t, sum.Distribution.Groups, 3)
	assert.Equal(t, int64(1700000000000), sum.QuotesUpdatedAt)
}

func TestSummary_UpstreamFailuresLeaveFieldsNil(t *testing.T) {
	w := sampleWallet()
	w.totalsErr = errors.New("503")
	w.perfErr = errors.New("503")
	w.distErr = errors.New("503")
	svc := newTestService(w, sampleQuotes())

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sum.TotalInvested)
	assert.Nil(t, sum.TotalDividends)
	assert.Nil(t, sum.ProfitLoss)
	assert.Nil(t, sum.DividendPerformance)
	assert.Nil(t, sum.UpstreamDistribution)
	assert.NotNil(t, sum.MarketTotal)
}

func TestSummary_HoldingsFailure(t *testing.T) {
	w := sampleWallet()
	w.holdingsErr = errors.New("timeout")
	svc := newTestService(w, sampleQuotes())

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.AssetCount)
	assert.Nil(t, sum.MarketTotal)
	assert.Nil(t, sum.Distribution)
	assert.NotNil(t, sum.TotalInvested)
}

func TestSummary_NoQuotes(t *testing.T) {
	svc := newTestService(sampleWallet(), &mockQuotes{})

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sum.Best)
	require.Len(t, sum.TopBest, 1)
	assert.True(t, sum.TopBest[0].IsSentinel())
	// Only the treasury holding contributes
	assert.Equal(t, 1000.0, *sum.MarketTotal)
}

func TestSummary_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(sampleWallet(), sampleQuotes())
	_, err := svc.Summary(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummary_RequestCurrency(t *testing.T) {
	svc := newTestService(sampleWallet(), sampleQuotes())
	ctx := common.WithRequestContext(context.Background(), &common.RequestContext{DisplayCurrency: "USD"})

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", sum.Currency)
}
