package ranking

import (
	"testing"

	"github.com/bobmcallan/carteira/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marginProfiter returns a fixed margin per symbol. Symbols not in the map
// have no quote.
type marginProfiter map[string]float64

func (m marginProfiter) ProfitFor(h models.Holding) (models.Profit, bool) {
	pct, ok := m[h.Symbol]
	if !ok {
		return models.Profit{}, false
	}
	return models.Profit{Percent: pct}, true
}

func holdings(symbols ...string) []models.Holding {
	out := make([]models.Holding, len(symbols))
	for i, s := range symbols {
		out[i] = models.Holding{Symbol: s, Quantity: float64(i + 1), AveragePrice: 10, Category: "Ações"}
	}
	return out
}

func symbolsOf(entries []models.RankingEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Symbol
	}
	return out
}

func TestTopN_StableAndTruncated(t *testing.T) {
	p := marginProfiter{"A": 10, "B": 30, "C": 30, "D": -5, "E": 20}
	hs := holdings("A", "B", "C", "D", "E")

	best := TopN(models.RankBest, p, hs, 3)
	assert.Equal(t, []string{"B", "C", "E"}, symbolsOf(best))

	worst := TopN(models.RankWorst, p, hs, 3)
	assert.Equal(t, []string{"D", "A", "E"}, symbolsOf(worst))
}

func TestTopN_FewerThanN(t *testing.T) {
	p := marginProfiter{"A": 1, "B": 2}
	got := TopN(models.RankBest, p, holdings("A", "B"), 10)
	assert.Equal(t, []string{"B", "A"}, symbolsOf(got))
}

func TestTopN_DefaultN(t *testing.T) {
	p := marginProfiter{"A": 1, "B": 2, "C": 3, "D": 4}
	got := TopN(models.RankBest, p, holdings("A", "B", "C", "D"), 0)
	assert.Len(t, got, DefaultTopN)
}

func TestTopN_NoQuotesReturnsSentinel(t *testing.T) {
	got := TopN(models.RankBest, marginProfiter{}, holdings("A", "B"), 3)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsSentinel())
}

func TestRankingExcludesUnquoted(t *testing.T) {
	// X has no quote; a zero margin would otherwise make it the best.
	p := marginProfiter{"A": -10, "B": -20}
	hs := holdings("A", "X", "B")

	best := BestOrWorst(models.RankBest, p, hs)
	assert.Equal(t, "A", best.Symbol)

	for _, e := range TopN(models.RankBest, p, hs, 5) {
		assert.NotEqual(t, "X", e.Symbol)
	}
}

func TestBestOrWorst(t *testing.T) {
	p := marginProfiter{"A": 10, "B": 30, "C": 30, "D": -5}
	hs := holdings("A", "B", "C", "D")

	best := BestOrWorst(models.RankBest, p, hs)
	assert.Equal(t, "B", best.Symbol)
	assert.Equal(t, 30.0, best.Margin)
	assert.Equal(t, "Ações", best.Category)
	assert.Equal(t, 10.0, best.AvgPrice)

	worst := BestOrWorst(models.RankWorst, p, hs)
	assert.Equal(t, "D", worst.Symbol)
}

func TestBestOrWorst_Empty(t *testing.T) {
	assert.True(t, BestOrWorst(models.RankWorst, marginProfiter{}, nil).IsSentinel())
}
