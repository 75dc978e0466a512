package domain

import "strings"

// Strategy selects the order in which upstream price sources are consulted.
type Strategy string

const (
	// StrategyDex queries the pair-discovery provider per token first,
	// falling back to the configured pair address and finally to the
	// batch price API for the native mint. Default.
	StrategyDex Strategy = "dex"
	// StrategyJup issues one batch price call first and only falls back
	// to pair discovery for mints the batch missed.
	StrategyJup Strategy = "jup"
)

// ParseStrategy maps a raw source selector to a Strategy. Unknown or
// empty values fall back to StrategyDex.
func ParseStrategy(raw string) Strategy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StrategyJup):
		return StrategyJup
	default:
		return StrategyDex
	}
}

// PriceSet maps a display key (registry symbol or raw mint) to a USD
// price. A nil entry means the price could not be resolved; it is kept
// distinct from zero and serializes as JSON null.
type PriceSet map[string]*float64

// TokenMeta is best-effort display metadata for an arbitrary mint.
// Symbol and Name are nil when no trading pair was found.
type TokenMeta struct {
	Mint   string  `json:"mint"`
	Symbol *string `json:"symbol"`
	Name   *string `json:"name"`
}
