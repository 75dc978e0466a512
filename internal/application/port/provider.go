package port

import "context"

// TokenPair is one trading-pair record returned by the pair-discovery
// provider. Prices and liquidity are pointers because upstream records
// routinely omit them.
type TokenPair struct {
	PairAddress  string
	PriceUSD     *float64
	LiquidityUSD *float64
	BaseSymbol   string
	BaseName     string
}

// BatchPriceClient resolves USD prices for many mints in one call.
type BatchPriceClient interface {
	Prices(ctx context.Context, mints []string) (map[string]float64, error)
}

// PairDiscoveryClient lists the trading pairs known for a single mint.
type PairDiscoveryClient interface {
	TokenPairs(ctx context.Context, mint string) ([]TokenPair, error)
}

// PairPriceClient resolves the USD price of one pair by its address.
type PairPriceClient interface {
	PairPrice(ctx context.Context, pairAddress string) (*float64, error)
}
