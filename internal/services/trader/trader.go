package trader

import (
	"context"

	"github.com/shopspring/decimal"
)

// Trader is the order venue: naive full-fill market orders against the
// stable asset. Implementations may fail per call; the engine owns the
// failure handling.
type Trader interface {
	MarketSell(ctx context.Context, symbol string, qty decimal.Decimal, clientOrderID string) error
	MarketBuy(ctx context.Context, symbol string, qty decimal.Decimal, clientOrderID string) error
}
