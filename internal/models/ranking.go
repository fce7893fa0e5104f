package models

import "fmt"

// RankKind selects ranking direction.
type RankKind string

const (
	RankBest  RankKind = "best"
	RankWorst RankKind = "worst"
)

// ParseRankKind validates a ranking direction.
func ParseRankKind(s string) (RankKind, error) {
	switch RankKind(s) {
	case RankBest, RankWorst:
		return RankKind(s), nil
	}
	return "", fmt.Errorf("invalid ranking kind %q: must be %q or %q", s, RankBest, RankWorst)
}

// RankingEntry is the flattened view of a holding used for rankings.
// Margin is the holding's profit percent.
type RankingEntry struct {
	Symbol   string  `json:"symbol"`
	Margin   float64 `json:"margin"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// SentinelEntry is returned when no holding qualifies for ranking.
func SentinelEntry() RankingEntry {
	return RankingEntry{}
}

// IsSentinel reports whether e is the empty ranking result.
func (e RankingEntry) IsSentinel() bool {
	return e == RankingEntry{}
}
