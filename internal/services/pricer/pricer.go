package pricer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Pricer fetches last-trade prices for a set of venue symbols.
// The returned map may be partial: symbols the venue cannot quote this tick
// are simply absent. Callers must never assume completeness.
type Pricer interface {
	Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}
