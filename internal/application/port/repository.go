package port

import "context"

// PricePoint is one recorded resolution for a mint.
type PricePoint struct {
	Mint   string  `json:"mint"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Ts     int64   `json:"ts_ms"`
}

// PriceHistory records resolved prices and serves them back for charting.
type PriceHistory interface {
	RecordPrice(ctx context.Context, mint, symbol string, price float64, ts int64) error
	ListPrices(ctx context.Context, mint string, limit int) ([]PricePoint, error)
	Close() error
}

// PriceCache is a short-lived read-through cache in front of the
// upstream providers.
type PriceCache interface {
	GetPrice(ctx context.Context, mint string) (float64, bool, error)
	SetPrice(ctx context.Context, mint string, price float64) error
}
